package enums

import "fmt"

// CropSeason is the Indian agricultural season a crop is grown in.
type CropSeason string

const (
	CropSeasonKharif CropSeason = "Kharif"
	CropSeasonRabi   CropSeason = "Rabi"
	CropSeasonZaid   CropSeason = "Zaid"
	CropSeasonAnnual CropSeason = "Annual"
)

var validCropSeasons = []CropSeason{
	CropSeasonKharif,
	CropSeasonRabi,
	CropSeasonZaid,
	CropSeasonAnnual,
}

// String implements fmt.Stringer.
func (c CropSeason) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CropSeason.
func (c CropSeason) IsValid() bool {
	for _, candidate := range validCropSeasons {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCropSeason converts raw input into a CropSeason.
func ParseCropSeason(value string) (CropSeason, error) {
	for _, candidate := range validCropSeasons {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid crop season %q", value)
}
