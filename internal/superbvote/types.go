package superbvote

// Config is a SuperbVote rewards configuration.
type Config struct {
	Rewards []Reward `yaml:"rewards" json:"rewards"`
}

// Reward is one SuperbVote reward rule. SuperbVote evaluates rules in order
// and stops at the first match unless AllowCascading is set.
type Reward struct {
	BroadcastMessage string    `yaml:"broadcast-message" json:"broadcast-message"`
	PlayerMessage    string    `yaml:"player-message" json:"player-message"`
	Commands         []string  `yaml:"commands" json:"commands"`
	If               Condition `yaml:"if" json:"if"`
	AllowCascading   bool      `yaml:"allow-cascading,omitempty" json:"allow-cascading,omitempty"`
}

// Condition selects when a reward applies. At most one field is set; the
// zero value matches every vote.
type Condition struct {
	Chance          *int    `yaml:"chance,omitempty" json:"chance,omitempty"`
	CumulativeVotes *int    `yaml:"cumulative-votes,omitempty" json:"cumulative-votes,omitempty"`
	Permission      *string `yaml:"permission,omitempty" json:"permission,omitempty"`
	Service         *string `yaml:"service,omitempty" json:"service,omitempty"`
}

// Kind names the populated condition field, or "default".
func (c Condition) Kind() string {
	switch {
	case c.Chance != nil:
		return "chance"
	case c.CumulativeVotes != nil:
		return "cumulative-votes"
	case c.Permission != nil:
		return "permission"
	case c.Service != nil:
		return "service"
	}
	return "default"
}
