package superbvote

import "strings"

// placeholders maps GAListener message tokens to their SuperbVote spelling.
// No replacement contains a brace, so a converted string never holds a token.
var placeholders = [][2]string{
	{"{DARK_GRAY}", "&8"},
	{"{DARK_GREEN}", "&2"},
	{"{DARK_PURPLE}", "&5"},
	{"{DARK_RED}", "&4"},
	{"{GOLD}", "&6"},
	{"{GRAY}", "&7"},
	{"{GREEN}", "&a"},
	{"{LIGHT_PURPLE}", "&d"},
	{"{RED}", "&c"},
	{"{WHITE}", "&f"},
	{"{YELLOW}", "&e"},
	{"{BOLD}", "&l"},
	{"{ITALIC}", "&o"},
	{"{MAGIC}", "&k"},
	{"{RESET}", "&r"},
	{"{STRIKE}", "&m"},
	{"{STRIKETHROUGH}", "&m"},
	{"{UNDERLINE}", "&n"},
	{"{service}", "%service%"},
	{"{servicename}", "%service%"},
	{"{SERVICE}", "%service%"},
	{"{username}", "%player%"},
	{"{votes}", "%votes%"},
	{"{uuid}", "%uuid%"},
}

var placeholderReplacer = func() *strings.Replacer {
	pairs := make([]string, 0, len(placeholders)*2)
	for _, p := range placeholders {
		pairs = append(pairs, p[0], p[1])
	}
	return strings.NewReplacer(pairs...)
}()

// ConvertMessage rewrites GAListener placeholders in s in a single
// non-overlapping pass.
func ConvertMessage(s string) string {
	return placeholderReplacer.Replace(s)
}
