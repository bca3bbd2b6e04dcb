package entity

// Label is one of the fixed classification categories
type Label string

const (
	LabelFishing Label = "fishing"
	LabelFraud   Label = "fraud"
	LabelSpam    Label = "spam"
)

// DefaultLabels is the label set the bundled models are trained for
var DefaultLabels = []Label{LabelFishing, LabelFraud, LabelSpam}

// DefaultThresholds are seeded into the settings store on first start
var DefaultThresholds = map[Label]string{
	LabelFishing: "0.985",
	LabelFraud:   "0.90",
	LabelSpam:    "0.98",
}

// ThresholdKey returns the settings key holding the label's threshold
func (l Label) ThresholdKey() string {
	return string(l) + ThresholdSuffix
}

// String implements fmt.Stringer
func (l Label) String() string {
	return string(l)
}
