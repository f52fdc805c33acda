// Package viz provides terminal rendering for the particle simulator.
//
//   - [Field]: character-cell raster of the particle population, one glyph
//     per cell colored by species
//   - [Canvas]: Braille pixel canvas used for the Kc trace
//   - [Theme]: species and status colors shared with the window front-end
//
// Styles are plain lipgloss values; rendering functions return strings and
// never write to the terminal themselves.
package viz
