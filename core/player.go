package core

import (
	"encoding/json"
	"errors"
	"regexp"

	"github.com/samber/oops"
)

// PlayerStatus is the dream-session phase of a player.
// Only AWAKE and WAKE_READY carry meaning for the dashboard; other values are
// owned by the device-facing sync protocol.
type PlayerStatus string

const (
	PlayerStatusAwake     PlayerStatus = "AWAKE"
	PlayerStatusSleeping  PlayerStatus = "SLEEPING"
	PlayerStatusWakeReady PlayerStatus = "WAKE_READY"
)

// GameVersion identifies the cartridge a player synced from.
type GameVersion string

const (
	GameVersionBlack  GameVersion = "BLACK"
	GameVersionWhite  GameVersion = "WHITE"
	GameVersionBlack2 GameVersion = "BLACK_2"
	GameVersionWhite2 GameVersion = "WHITE_2"
)

// IsVersion2 reports whether v is one of the sequel releases.
func (v GameVersion) IsVersion2() bool {
	return v == GameVersionBlack2 || v == GameVersionWhite2
}

// PkmnGender of the tucked-in avatar.
type PkmnGender string

const (
	PkmnGenderMale       PkmnGender = "MALE"
	PkmnGenderFemale     PkmnGender = "FEMALE"
	PkmnGenderGenderless PkmnGender = "GENDERLESS"
)

// PkmnInfo describes the avatar a player tucked in.
type PkmnInfo struct {
	Species int        `json:"species" yaml:"species"`
	Form    int        `json:"form" yaml:"form"`
	Gender  PkmnGender `json:"gender" yaml:"gender"`
	Shiny   bool       `json:"shiny" yaml:"shiny"`
	Level   int        `json:"level" yaml:"level"`
}

// DreamAnimation is how an encountered Pokémon moves in the dream world.
type DreamAnimation string

const (
	DreamAnimationLookAround           DreamAnimation = "LOOK_AROUND"
	DreamAnimationWalkAround           DreamAnimation = "WALK_AROUND"
	DreamAnimationWalkLookAround       DreamAnimation = "WALK_LOOK_AROUND"
	DreamAnimationWalkVertically       DreamAnimation = "WALK_VERTICALLY"
	DreamAnimationWalkHorizontally     DreamAnimation = "WALK_HORIZONTALLY"
	DreamAnimationWalkLookHorizontally DreamAnimation = "WALK_LOOK_HORIZONTALLY"
	DreamAnimationSpinRight            DreamAnimation = "SPIN_RIGHT"
	DreamAnimationSpinLeft             DreamAnimation = "SPIN_LEFT"
)

// IsKnown reports whether a is one of the animations the game can play.
func (a DreamAnimation) IsKnown() bool {
	switch a {
	case DreamAnimationLookAround, DreamAnimationWalkAround, DreamAnimationWalkLookAround,
		DreamAnimationWalkVertically, DreamAnimationWalkHorizontally, DreamAnimationWalkLookHorizontally,
		DreamAnimationSpinRight, DreamAnimationSpinLeft:
		return true
	}
	return false
}

// UnmarshalJSON rejects names outside the known set. null and "" decode to
// the empty animation, which validation reports as undefined.
func (a *DreamAnimation) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		*a = ""
		return nil
	}
	if v := DreamAnimation(*s); v.IsKnown() {
		*a = v
		return nil
	}
	return oops.Code("DREAM_ANIMATION_UNKNOWN").With("animation", *s).Errorf("unknown dream animation %q", *s)
}

// DreamEncounter is one entry of the dream encounter list.
type DreamEncounter struct {
	Species   int            `json:"species"`
	Move      int            `json:"move"`
	Form      int            `json:"form"`
	Animation DreamAnimation `json:"animation"`
}

// DreamItem is one entry of the dream item list.
type DreamItem struct {
	ID       int `json:"id"`
	Quantity int `json:"quantity"`
}

// DreamProfile is the dashboard-owned part of a player record.
// Empty skin/musical strings mean no selection.
type DreamProfile struct {
	Encounters   []DreamEncounter `json:"encounters"`
	Items        []DreamItem      `json:"items"`
	CGearSkin    string           `json:"cgearSkin,omitempty"`
	DexSkin      string           `json:"dexSkin,omitempty"`
	Musical      string           `json:"musical,omitempty"`
	LevelsGained int              `json:"levelsGained"`
}

// Player is a snapshot of a dream-session record addressed by Game Sync ID.
type Player struct {
	GameSyncID  string       `json:"gameSyncId"`
	Status      PlayerStatus `json:"status"`
	GameVersion GameVersion  `json:"gameVersion"`
	DreamerInfo PkmnInfo     `json:"dreamerInfo"`
	DreamProfile
}

// clone returns a copy that shares no slices with p.
func (p Player) clone() Player {
	p.DreamProfile = p.DreamProfile.clone()
	return p
}

// clone returns a copy that shares no slices with d. Lists are never nil in
// the copy so they serialize as [] rather than null.
func (d DreamProfile) clone() DreamProfile {
	encounters := make([]DreamEncounter, len(d.Encounters))
	copy(encounters, d.Encounters)
	items := make([]DreamItem, len(d.Items))
	copy(items, d.Items)
	d.Encounters, d.Items = encounters, items
	return d
}

var (
	// ErrInvalidGameSyncID is returned for malformed Game Sync IDs.
	ErrInvalidGameSyncID = errors.New("invalid game sync id")
	// ErrPlayerAwake is returned when the device currently owns the session.
	ErrPlayerAwake = errors.New("player is awake")
)

var gameSyncIDPattern = regexp.MustCompile(`^[A-HJ-NP-Z2-9]{10}$`)

// IsValidGameSyncID reports whether gsid has the Game Sync ID shape.
func IsValidGameSyncID(gsid string) bool {
	return gameSyncIDPattern.MatchString(gsid)
}
