package analysis

import (
	"strings"

	"github.com/san-kum/equilab/internal/telemetry"
)

// Trajectory renders the composition path of a run, free reactant A on the
// horizontal axis and product AB on the vertical, as width x height runes.
// The latest point is drawn as 'o'.
func Trajectory(points []telemetry.Point, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].A, points[0].A
	minY, maxY := points[0].AB, points[0].AB
	for _, p := range points {
		minX, maxX = min(minX, p.A), max(maxX, p.A)
		minY, maxY = min(minY, p.AB), max(maxY, p.AB)
	}
	rangeX := float64(maxX - minX)
	rangeY := float64(maxY - minY)
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	cell := func(p telemetry.Point) (int, int) {
		col := int(float64(p.A-minX) / rangeX * float64(width-1))
		row := height - 1 - int(float64(p.AB-minY)/rangeY*float64(height-1))
		return row, col
	}

	for _, p := range points {
		row, col := cell(p)
		canvas[row][col] = '•'
	}
	row, col := cell(points[len(points)-1])
	canvas[row][col] = 'o'

	var sb strings.Builder
	for _, r := range canvas {
		sb.WriteString(string(r))
		sb.WriteRune('\n')
	}
	return sb.String()
}
