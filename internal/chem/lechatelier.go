package chem

type Condition string

const (
	AddReactant         Condition = "add-reactant"
	RemoveReactant      Condition = "remove-reactant"
	AddProduct          Condition = "add-product"
	RemoveProduct       Condition = "remove-product"
	IncreasePressure    Condition = "increase-pressure"
	DecreasePressure    Condition = "decrease-pressure"
	IncreaseTemperature Condition = "increase-temperature"
	DecreaseTemperature Condition = "decrease-temperature"
)

const NoChange = "No change applied."

var advice = map[Condition]string{
	AddReactant:         "Adding reactant shifts equilibrium to the products.",
	RemoveReactant:      "Removing reactant shifts equilibrium to the reactants.",
	AddProduct:          "Adding product shifts equilibrium to the reactants.",
	RemoveProduct:       "Removing product shifts equilibrium to the products.",
	IncreasePressure:    "Increasing pressure favors the side with fewer moles of gas.",
	DecreasePressure:    "Decreasing pressure favors the side with more moles of gas.",
	IncreaseTemperature: "Increasing temperature shifts equilibrium depending on the reaction's enthalpy.",
	DecreaseTemperature: "Decreasing temperature shifts equilibrium depending on the reaction's enthalpy.",
}

// Advise explains how the equilibrium responds to c. Unknown conditions get NoChange.
func Advise(c Condition) string {
	if msg, ok := advice[c]; ok {
		return msg
	}
	return NoChange
}

func Conditions() []Condition {
	return []Condition{
		AddReactant, RemoveReactant,
		AddProduct, RemoveProduct,
		IncreasePressure, DecreasePressure,
		IncreaseTemperature, DecreaseTemperature,
	}
}
