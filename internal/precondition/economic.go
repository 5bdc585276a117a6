package precondition

// ThresholdTable maps an action to the minimum cash required to attempt it.
type ThresholdTable map[string]int64

// FloorStatus is the outcome of CheckFloor.
type FloorStatus struct {
	OK       bool
	Required int64
}

// CheckFloor compares balance against the action's threshold. Equal is
// enough. Actions without a threshold have no floor.
func CheckFloor(action string, balance int64, thresholds ThresholdTable) FloorStatus {
	required, ok := thresholds[action]
	if !ok || balance >= required {
		return FloorStatus{OK: true, Required: required}
	}
	return FloorStatus{Required: required}
}
