package domain

// Viewer is a user reading transactions together with the set of users that share
// at least one household with them (the viewer included).
type Viewer struct {
	UserID     string
	Housemates map[string]struct{}
}

// NewViewer builds a Viewer from the co-resident user ids.
func NewViewer(userID string, housemates []string) Viewer {
	set := make(map[string]struct{}, len(housemates)+1)
	set[userID] = struct{}{}
	for _, id := range housemates {
		set[id] = struct{}{}
	}
	return Viewer{UserID: userID, Housemates: set}
}

// CanSee reports whether the viewer may read a transaction funded by ownerID.
// Private movements are visible to their funding owner only; shared ones to anyone
// who co-resides with the owner.
func (v Viewer) CanSee(ownerID string, isShared bool) bool {
	if ownerID == "" {
		return false
	}
	if ownerID == v.UserID {
		return true
	}
	if !isShared {
		return false
	}
	_, ok := v.Housemates[ownerID]
	return ok
}
