package enums

import "fmt"

type CakeSize string

const (
	CakeSizeSmall  CakeSize = "small"
	CakeSizeMedium CakeSize = "medium"
	CakeSizeLarge  CakeSize = "large"
	CakeSizeXLarge CakeSize = "xlarge"
)

var validCakeSizes = []CakeSize{
	CakeSizeSmall,
	CakeSizeMedium,
	CakeSizeLarge,
	CakeSizeXLarge,
}

func (c CakeSize) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CakeSize.
func (c CakeSize) IsValid() bool {
	for _, candidate := range validCakeSizes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCakeSize converts raw input into a CakeSize.
func ParseCakeSize(value string) (CakeSize, error) {
	for _, candidate := range validCakeSizes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cake size %q", value)
}

func CakeSizes() []CakeSize {
	return append([]CakeSize(nil), validCakeSizes...)
}
