package enums

import "fmt"

type CakeFilling string

const (
	CakeFillingNone        CakeFilling = "none"
	CakeFillingButtercream CakeFilling = "buttercream"
	CakeFillingGanache     CakeFilling = "ganache"
	CakeFillingCreamCheese CakeFilling = "cream_cheese"
	CakeFillingCustard     CakeFilling = "custard"
	CakeFillingFruit       CakeFilling = "fruit"
)

var validCakeFillings = []CakeFilling{
	CakeFillingNone,
	CakeFillingButtercream,
	CakeFillingGanache,
	CakeFillingCreamCheese,
	CakeFillingCustard,
	CakeFillingFruit,
}

func (c CakeFilling) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CakeFilling.
func (c CakeFilling) IsValid() bool {
	for _, candidate := range validCakeFillings {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCakeFilling converts raw input into a CakeFilling.
func ParseCakeFilling(value string) (CakeFilling, error) {
	for _, candidate := range validCakeFillings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cake filling %q", value)
}
