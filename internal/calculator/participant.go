package calculator

// ParticipantKind distinguishes registered users from informally tracked friends.
type ParticipantKind string

const (
	KindUser   ParticipantKind = "user"
	KindFriend ParticipantKind = "friend"
)

// Participant identifies one person in a split: either a registered user or a
// friend, never both. Construct through UserParticipant, FriendParticipant or
// ResolveParticipant so the tag and ID stay consistent.
type Participant struct {
	Kind ParticipantKind
	ID   string
	Name string
}

// UserParticipant returns a participant backed by a registered user.
func UserParticipant(id, name string) Participant {
	return Participant{Kind: KindUser, ID: id, Name: name}
}

// FriendParticipant returns a participant backed by a friend record.
func FriendParticipant(id, name string) Participant {
	return Participant{Kind: KindFriend, ID: id, Name: name}
}

// ResolveParticipant builds a Participant from the nullable user/friend
// foreign keys a persistence record carries. A record that links to neither
// is malformed and rejected; a record that links to both keeps the user link,
// matching how such rows were interpreted upstream.
func ResolveParticipant(userID, friendID, name string) (Participant, error) {
	switch {
	case userID != "":
		return UserParticipant(userID, name), nil
	case friendID != "":
		return FriendParticipant(friendID, name), nil
	default:
		return Participant{}, invalidf("participant links to neither a user nor a friend")
	}
}

// Key returns the identity bucket key, e.g. "user-42" or "friend-7".
func (p Participant) Key() string {
	return string(p.Kind) + "-" + p.ID
}

func (p Participant) validate() error {
	if p.ID == "" {
		return invalidf("participant has an empty id")
	}
	if p.Kind != KindUser && p.Kind != KindFriend {
		return invalidf("participant %q has unknown kind %q", p.ID, p.Kind)
	}
	return nil
}
