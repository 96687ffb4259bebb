package core

// Limits enforced on dashboard profile updates.
const (
	MaxDreamEncounters = 10
	MaxDreamItems      = 20
	MaxSpecies         = 493
	MaxMoveID          = 559
	MaxItemID          = 638
	MaxBaseItemID      = 626
	MaxItemQuantity    = 20
	MaxLevelsGained    = 99
)

// noneSelection is the dashboard sentinel that clears a cosmetic selection.
const noneSelection = "none"

// ProfileUpdateRequest is the full profile payload posted by the dashboard.
type ProfileUpdateRequest struct {
	Encounters   []DreamEncounter `json:"encounters"`
	Items        []DreamItem      `json:"items"`
	CGearSkin    string           `json:"cgearSkin"`
	DexSkin      string           `json:"dexSkin"`
	Musical      string           `json:"musical"`
	GainedLevels int              `json:"gainedLevels"`
}

// Profile converts the request into the stored form, mapping "none" to no selection.
func (r ProfileUpdateRequest) Profile() DreamProfile {
	return DreamProfile{
		Encounters:   r.Encounters,
		Items:        r.Items,
		CGearSkin:    selection(r.CGearSkin),
		DexSkin:      selection(r.DexSkin),
		Musical:      selection(r.Musical),
		LevelsGained: r.GainedLevels,
	}.clone()
}

func selection(v string) string {
	if v == noneSelection {
		return ""
	}
	return v
}

// ValidationError carries the reason shown to the dashboard user.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(reason string) error {
	return &ValidationError{Reason: reason}
}

// ValidateProfileUpdate checks req against player without modifying either.
// Encounters are checked first, then items, then gained levels; the first
// failure is returned.
func ValidateProfileUpdate(player Player, req ProfileUpdateRequest) error {
	if len(req.Encounters) > MaxDreamEncounters {
		return invalid("Encounter list size exceeds the limit.")
	}
	for _, e := range req.Encounters {
		switch {
		case e.Species < 1 || e.Species > MaxSpecies:
			return invalid("Species is out of range.")
		case e.Move < 1 || e.Move > MaxMoveID:
			return invalid("Move ID is out of range.")
		case !e.Animation.IsKnown():
			return invalid("Animation is undefined.")
		}
	}

	if len(req.Items) > MaxDreamItems {
		return invalid("Item list size exceeds the limit.")
	}
	for _, item := range req.Items {
		if item.ID < 0 || item.ID > MaxItemID {
			return invalid("Item ID is out of range")
		}
		if item.ID > MaxBaseItemID && !player.GameVersion.IsVersion2() {
			return invalid("You have selected one or more items that are exclusive to Black Version 2 and White Version 2.")
		}
		if item.Quantity < 0 || item.Quantity > MaxItemQuantity {
			return invalid("Item quantity is out of range.")
		}
	}

	if req.GainedLevels < 0 || req.GainedLevels > MaxLevelsGained {
		return invalid("Gained levels is out of range.")
	}
	return nil
}
