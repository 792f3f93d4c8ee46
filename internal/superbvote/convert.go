// Package superbvote rewrites GAListener vote-reward configurations into
// SuperbVote reward lists.
package superbvote

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
)

// ErrNotGAListener is returned when a document cannot be read as a
// GAListener configuration. Conversion never produces partial output.
var ErrNotGAListener = errors.New("superbvote: not a GAListener configuration")

func mismatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotGAListener, fmt.Sprintf(format, args...))
}

// Convert builds a SuperbVote configuration from a GAListener one.
//
// GAListener checks lucky votes, cumulative totals, permissions and services
// in that order, so rewards are emitted in the same order: thresholds
// ascending numerically, permissions and services ascending lexically.
// Threshold rewards cascade into later rules.
func Convert(gal *document.Node) (*Config, error) {
	var rewards []Reward

	lucky, err := thresholdRewards(gal, "luckyvotes", func(n int) Condition { return Condition{Chance: &n} })
	if err != nil {
		return nil, err
	}
	rewards = append(rewards, lucky...)

	cumulative, err := thresholdRewards(gal, "cumulative", func(n int) Condition { return Condition{CumulativeVotes: &n} })
	if err != nil {
		return nil, err
	}
	rewards = append(rewards, cumulative...)

	perms, err := namedRewards(gal, "perms", false, func(k string) Condition {
		p := "gal." + k
		return Condition{Permission: &p}
	})
	if err != nil {
		return nil, err
	}
	rewards = append(rewards, perms...)

	services, err := namedRewards(gal, "services", true, func(k string) Condition {
		if k == "default" {
			return Condition{}
		}
		return Condition{Service: &k}
	})
	if err != nil {
		return nil, err
	}
	rewards = append(rewards, services...)

	if rewards == nil {
		rewards = []Reward{}
	}
	return &Config{Rewards: rewards}, nil
}

// section returns the mapping stored under name. Optional sections may be
// absent or null.
func section(gal *document.Node, name string, required bool) (*document.Node, error) {
	s := gal.Get(name)
	if s.IsNull() {
		if required {
			return nil, mismatch("%s section is missing", name)
		}
		return nil, nil
	}
	if !s.IsMap() {
		return nil, mismatch("%s section is a %s, not a mapping", name, s.Kind())
	}
	return s, nil
}

type thresholdEntry struct {
	n   int
	key string
	val *document.Node
}

func thresholdRewards(gal *document.Node, name string, cond func(int) Condition) ([]Reward, error) {
	s, err := section(gal, name, false)
	if err != nil || s == nil {
		return nil, err
	}
	entries := make([]thresholdEntry, 0, s.Len())
	for _, e := range s.Entries() {
		n, ok := e.KeyScalar().Int()
		if !ok {
			return nil, mismatch("%s key %q is not a number", name, e.Key)
		}
		entries = append(entries, thresholdEntry{n: n, key: e.Key, val: e.Value})
	}
	slices.SortStableFunc(entries, func(a, b thresholdEntry) int { return cmp.Compare(a.n, b.n) })

	out := make([]Reward, 0, len(entries))
	for _, e := range entries {
		r, err := convertReward(e.val)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, e.key, err)
		}
		r.If = cond(e.n)
		r.AllowCascading = true
		out = append(out, r)
	}
	return out, nil
}

func namedRewards(gal *document.Node, name string, required bool, cond func(string) Condition) ([]Reward, error) {
	s, err := section(gal, name, required)
	if err != nil || s == nil {
		return nil, err
	}
	entries := s.Entries()
	slices.SortStableFunc(entries, func(a, b document.Entry) int { return strings.Compare(a.Key, b.Key) })

	out := make([]Reward, 0, len(entries))
	for _, e := range entries {
		r, err := convertReward(e.Value)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", name, e.Key, err)
		}
		r.If = cond(e.Key)
		out = append(out, r)
	}
	return out, nil
}

// convertReward translates a GAListener reward body. All three fields are
// required.
func convertReward(body *document.Node) (Reward, error) {
	if !body.IsMap() {
		return Reward{}, mismatch("reward is a %s, not a mapping", body.Kind())
	}
	broadcast, err := messageField(body, "broadcast")
	if err != nil {
		return Reward{}, err
	}
	player, err := messageField(body, "playermessage")
	if err != nil {
		return Reward{}, err
	}
	cmds := body.Get("commands")
	if !cmds.IsSeq() {
		return Reward{}, mismatch("commands must be a list")
	}
	commands := make([]string, 0, cmds.Len())
	for i, c := range cmds.Items() {
		if !c.IsString() {
			return Reward{}, mismatch("commands[%d] is not text", i)
		}
		commands = append(commands, ConvertMessage(c.Text()))
	}
	return Reward{
		BroadcastMessage: ConvertMessage(broadcast),
		PlayerMessage:    ConvertMessage(player),
		Commands:         commands,
	}, nil
}

func messageField(body *document.Node, key string) (string, error) {
	v := body.Get(key)
	if !v.IsString() {
		return "", mismatch("%s must be text", key)
	}
	return v.Text(), nil
}
