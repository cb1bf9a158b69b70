package enums

import "fmt"

type CakeFlavor string

const (
	CakeFlavorChocolate CakeFlavor = "chocolate"
	CakeFlavorVanilla   CakeFlavor = "vanilla"
	CakeFlavorRedVelvet CakeFlavor = "red_velvet"
	CakeFlavorUbe       CakeFlavor = "ube"
	CakeFlavorMocha     CakeFlavor = "mocha"
	CakeFlavorLemon     CakeFlavor = "lemon"
)

var validCakeFlavors = []CakeFlavor{
	CakeFlavorChocolate,
	CakeFlavorVanilla,
	CakeFlavorRedVelvet,
	CakeFlavorUbe,
	CakeFlavorMocha,
	CakeFlavorLemon,
}

func (c CakeFlavor) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CakeFlavor.
func (c CakeFlavor) IsValid() bool {
	for _, candidate := range validCakeFlavors {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCakeFlavor converts raw input into a CakeFlavor.
func ParseCakeFlavor(value string) (CakeFlavor, error) {
	for _, candidate := range validCakeFlavors {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cake flavor %q", value)
}
