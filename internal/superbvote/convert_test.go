package superbvote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
	"github.com/gyaneshwarpardhi/minecraftutils/internal/superbvote"
)

func convertYAML(t *testing.T, src string) (*superbvote.Config, error) {
	t.Helper()
	doc, err := document.Decode([]byte(src))
	require.NoError(t, err)
	return superbvote.Convert(doc)
}

func intp(n int) *int       { return &n }
func strp(s string) *string { return &s }

func TestConvert_EndToEnd(t *testing.T) {
	cfg, err := convertYAML(t, `
services:
  default:
    broadcast: "{GREEN}Hi"
    playermessage: "{RED}Bye"
    commands: []
`)
	require.NoError(t, err)

	out, err := superbvote.Encode(cfg)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out, &got))
	assert.Equal(t, map[string]any{
		"rewards": []any{
			map[string]any{
				"broadcast-message": "&aHi",
				"player-message":    "&cBye",
				"commands":          []any{},
				"if":                map[string]any{},
			},
		},
	}, got)
}

const fullGAListener = `
luckyvotes:
  50:
    broadcast: "{username} got lucky!"
    playermessage: "Lucky 50"
    commands: ["give {username} diamond 5"]
  10:
    broadcast: ""
    playermessage: "Lucky 10"
    commands: []
cumulative:
  100:
    broadcast: "{username} reached {votes} votes"
    playermessage: ""
    commands: []
  25:
    broadcast: ""
    playermessage: "25 votes"
    commands: []
perms:
  vip:
    broadcast: ""
    playermessage: "VIP bonus"
    commands: ["eco give {username} 100"]
  admin:
    broadcast: ""
    playermessage: "Admin bonus"
    commands: []
services:
  PlanetMinecraft:
    broadcast: "{GOLD}{username} voted on {service}"
    playermessage: "Thanks!"
    commands: []
  default:
    broadcast: "{username} voted on {servicename}"
    playermessage: "{BOLD}Thanks{RESET} for voting"
    commands: ["eco give {username} 10", "say {uuid}"]
`

func TestConvert_CategoryAndKeyOrder(t *testing.T) {
	cfg, err := convertYAML(t, fullGAListener)
	require.NoError(t, err)
	require.Len(t, cfg.Rewards, 8)

	want := []superbvote.Condition{
		{Chance: intp(10)},
		{Chance: intp(50)},
		{CumulativeVotes: intp(25)},
		{CumulativeVotes: intp(100)},
		{Permission: strp("gal.admin")},
		{Permission: strp("gal.vip")},
		{Service: strp("PlanetMinecraft")},
		{},
	}
	for i, r := range cfg.Rewards {
		assert.Equal(t, want[i], r.If, "reward %d", i)
	}

	for i, r := range cfg.Rewards {
		wantCascade := i < 4
		assert.Equal(t, wantCascade, r.AllowCascading, "reward %d", i)
	}
}

func TestConvert_MessagesAreRewritten(t *testing.T) {
	cfg, err := convertYAML(t, fullGAListener)
	require.NoError(t, err)

	lucky50 := cfg.Rewards[1]
	assert.Equal(t, "%player% got lucky!", lucky50.BroadcastMessage)
	assert.Equal(t, []string{"give %player% diamond 5"}, lucky50.Commands)

	def := cfg.Rewards[7]
	assert.Equal(t, "%player% voted on %service%", def.BroadcastMessage)
	assert.Equal(t, "&lThanks&r for voting", def.PlayerMessage)
	assert.Equal(t, []string{"eco give %player% 10", "say %uuid%"}, def.Commands)

	pmc := cfg.Rewards[6]
	assert.Equal(t, "&6%player% voted on %service%", pmc.BroadcastMessage)
}

func TestConvert_LuckyOrderingIsNumeric(t *testing.T) {
	cfg, err := convertYAML(t, `
luckyvotes:
  50: {broadcast: A, playermessage: A, commands: []}
  10: {broadcast: B, playermessage: B, commands: []}
  9: {broadcast: C, playermessage: C, commands: []}
services: {}
`)
	require.NoError(t, err)
	require.Len(t, cfg.Rewards, 3)
	assert.Equal(t, "C", cfg.Rewards[0].BroadcastMessage)
	assert.Equal(t, "B", cfg.Rewards[1].BroadcastMessage)
	assert.Equal(t, "A", cfg.Rewards[2].BroadcastMessage)
}

func TestConvert_ThresholdKeysUseResolvedNumbers(t *testing.T) {
	tests := []struct {
		key  string
		want int
	}{
		{"10", 10},
		{"010", 8},
		{"0o17", 15},
		{"0x10", 16},
		{"1_000", 1000},
		{"10.0", 10},
		{"10.9", 10},
		{"'12'", 12},
		{"' 7 '", 7},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cfg, err := convertYAML(t, "cumulative:\n  "+tt.key+": {broadcast: a, playermessage: b, commands: []}\nservices: {}\n")
			require.NoError(t, err)
			require.Len(t, cfg.Rewards, 1)
			assert.Equal(t, intp(tt.want), cfg.Rewards[0].If.CumulativeVotes)
		})
	}
}

func TestConvert_OctalKeyOrdersByValue(t *testing.T) {
	cfg, err := convertYAML(t, `
luckyvotes:
  010: {broadcast: eight, playermessage: a, commands: []}
  9: {broadcast: nine, playermessage: b, commands: []}
services: {}
`)
	require.NoError(t, err)
	require.Len(t, cfg.Rewards, 2)
	assert.Equal(t, intp(8), cfg.Rewards[0].If.Chance)
	assert.Equal(t, "eight", cfg.Rewards[0].BroadcastMessage)
	assert.Equal(t, intp(9), cfg.Rewards[1].If.Chance)
}

func TestConvert_OptionalSectionsMayBeAbsent(t *testing.T) {
	cfg, err := convertYAML(t, "services: {}\n")
	require.NoError(t, err)
	assert.Empty(t, cfg.Rewards)
	assert.NotNil(t, cfg.Rewards)
}

func TestConvert_Failures(t *testing.T) {
	tests := map[string]string{
		"missing services": `
luckyvotes:
  10: {broadcast: a, playermessage: b, commands: []}
`,
		"services not a mapping": "services: [a, b]\n",
		"null services":          "services:\n",
		"non-numeric threshold": `
luckyvotes:
  ten: {broadcast: a, playermessage: b, commands: []}
services: {}
`,
		"infinite threshold": `
cumulative:
  .inf: {broadcast: a, playermessage: b, commands: []}
services: {}
`,
		"boolean threshold": `
luckyvotes:
  true: {broadcast: a, playermessage: b, commands: []}
services: {}
`,
		"cumulative not a mapping": "cumulative: 5\nservices: {}\n",
		"reward not a mapping":     "services: {default: hello}\n",
		"missing broadcast": `
services:
  default: {playermessage: b, commands: []}
`,
		"numeric playermessage": `
services:
  default: {broadcast: a, playermessage: 5, commands: []}
`,
		"commands not a list": `
services:
  default: {broadcast: a, playermessage: b, commands: "say hi"}
`,
		"command not text": `
services:
  default: {broadcast: a, playermessage: b, commands: [[nested]]}
`,
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := convertYAML(t, src)
			assert.ErrorIs(t, err, superbvote.ErrNotGAListener)
			assert.Nil(t, cfg)
		})
	}
}

func TestEncode_OutputPassesSchema(t *testing.T) {
	cfg, err := convertYAML(t, fullGAListener)
	require.NoError(t, err)
	require.NoError(t, superbvote.Verify(cfg))
}

func TestVerify_RejectsAmbiguousCondition(t *testing.T) {
	cfg := &superbvote.Config{Rewards: []superbvote.Reward{{
		Commands: []string{},
		If:       superbvote.Condition{Chance: intp(1), Service: strp("x")},
	}}}
	assert.Error(t, superbvote.Verify(cfg))

	_, err := superbvote.Encode(cfg)
	assert.Error(t, err)
}

func TestConditionKind(t *testing.T) {
	assert.Equal(t, "default", superbvote.Condition{}.Kind())
	assert.Equal(t, "chance", superbvote.Condition{Chance: intp(0)}.Kind())
	assert.Equal(t, "service", superbvote.Condition{Service: strp("")}.Kind())
}
