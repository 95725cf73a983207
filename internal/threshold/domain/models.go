package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
)

// Metric identifies a quality measurement of a shift.
type Metric string

const (
	MetricFatInMeat     Metric = "grasa-en-carne"
	MetricBoneInMeat    Metric = "hueso-en-carne"
	MetricSellableParts Metric = "piezas-vendibles"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricFatInMeat, MetricBoneInMeat, MetricSellableParts}

var displayNames = map[Metric]string{
	MetricFatInMeat:     "Grasa en carne",
	MetricBoneInMeat:    "Hueso en carne",
	MetricSellableParts: "Piezas Vendibles",
}

func (m Metric) DisplayName() string {
	return displayNames[m]
}

// HigherIsBetter reports the direction of the green boundary.
func (m Metric) HigherIsBetter() bool {
	return m == MetricSellableParts
}

// ParseMetric accepts a code or a display name in any case or accenting.
func ParseMetric(value string) (Metric, bool) {
	m := Metric(slug.Make(value))
	_, ok := displayNames[m]
	return m, ok
}

type Color string

const (
	ColorGreen   Color = "green"
	ColorYellow  Color = "yellow"
	ColorRed     Color = "red"
	ColorUnknown Color = "unknown"
)

// Threshold holds the color boundaries of one metric.
type Threshold struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Code      string       `json:"code" gorm:"type:text;not null;uniqueIndex:ux_thresholds_code"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Green     float64      `json:"green" gorm:"not null"`
	Yellow    float64      `json:"yellow" gorm:"not null"`
	Red       float64      `json:"red" gorm:"not null"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null"`
}

func (Threshold) TableName() string { return "thresholds" }

func (t Threshold) Metric() Metric { return Metric(t.Code) }

// Classify maps value onto a color. Lower-is-better metrics are green below
// the green boundary and yellow below the yellow boundary. Higher-is-better
// metrics are green at or above green and yellow at or above yellow.
// Anything else is red; red is informational only.
func (t Threshold) Classify(value float64) Color {
	if t.Metric().HigherIsBetter() {
		switch {
		case value >= t.Green:
			return ColorGreen
		case value >= t.Yellow:
			return ColorYellow
		default:
			return ColorRed
		}
	}
	switch {
	case value < t.Green:
		return ColorGreen
	case value < t.Yellow:
		return ColorYellow
	default:
		return ColorRed
	}
}

// Set indexes thresholds by metric.
type Set map[Metric]Threshold

func NewSet(items []Threshold) Set {
	set := make(Set, len(items))
	for _, item := range items {
		set[item.Metric()] = item
	}
	return set
}

func (s Set) Classify(metric Metric, value float64) Color {
	t, ok := s[metric]
	if !ok {
		return ColorUnknown
	}
	return t.Classify(value)
}

// Colors is the quality verdict of a shift.
type Colors struct {
	FatInMeat     Color `json:"fat_in_meat"`
	BoneInMeat    Color `json:"bone_in_meat"`
	SellableParts Color `json:"sellable_parts"`
}

func (s Set) ColorsFor(fat, bone, sellable float64) Colors {
	return Colors{
		FatInMeat:     s.Classify(MetricFatInMeat, fat),
		BoneInMeat:    s.Classify(MetricBoneInMeat, bone),
		SellableParts: s.Classify(MetricSellableParts, sellable),
	}
}

// Defaults are the boundaries seeded on first boot.
func Defaults() []Threshold {
	return []Threshold{
		{Code: string(MetricFatInMeat), Name: MetricFatInMeat.DisplayName(), Green: 10, Yellow: 15, Red: 20},
		{Code: string(MetricBoneInMeat), Name: MetricBoneInMeat.DisplayName(), Green: 5, Yellow: 8, Red: 10},
		{Code: string(MetricSellableParts), Name: MetricSellableParts.DisplayName(), Green: 80, Yellow: 70, Red: 60},
	}
}
