package lint

import (
	"iter"
	"strings"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
)

// BungeeCord checks a BungeeCord proxy config.yml.
//
// Rules run in a fixed order: servers, permissions presence, groups,
// permissions content, listeners.
type BungeeCord struct{}

func (BungeeCord) Dialect() Dialect { return DialectBungeeCord }

func (BungeeCord) Check(doc *document.Node) iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		servers := doc.Get("servers")
		if !servers.IsMap() || servers.Len() == 0 {
			servers = nil
		}
		permissionsDefined := doc.Defined("permissions")

		_ = checkServers(servers, yield) &&
			checkPermissionsPresent(permissionsDefined, yield) &&
			checkGroups(doc.Get("groups"), doc.Get("permissions"), permissionsDefined, yield) &&
			checkPermissions(doc.Get("permissions"), permissionsDefined, yield) &&
			checkListeners(doc.Get("listeners"), servers, yield)
	}
}

// Each rule returns false once the consumer stops iterating.

func checkServers(servers *document.Node, yield func(Diagnostic) bool) bool {
	if servers == nil {
		return yield(urgent("No servers are defined!"))
	}
	declared := make(map[string]string)
	for _, e := range servers.Entries() {
		if !e.Value.Defined("address") {
			if !yield(urgent("Server %s does not have an address!", e.Key)) {
				return false
			}
			continue
		}
		address := e.Value.Get("address")
		if !address.IsScalar() {
			continue
		}
		addr := address.Text()
		if first, dup := declared[addr]; dup {
			if !yield(warning("Server %s has a duplicate IP address (%s), used by server %s.", e.Key, addr, first)) {
				return false
			}
			continue
		}
		declared[addr] = e.Key
	}
	return true
}

func checkPermissionsPresent(defined bool, yield func(Diagnostic) bool) bool {
	if !defined {
		return yield(urgent("No groups are defined!"))
	}
	return true
}

func checkGroups(groups, permissions *document.Node, permissionsDefined bool, yield func(Diagnostic) bool) bool {
	if groups.Empty() {
		return yield(warning("No users are in groups."))
	}
	if !permissionsDefined {
		return true
	}
	for _, e := range groups.Entries() {
		for _, group := range groupNames(e.Value) {
			if permissions.Has(group) {
				continue
			}
			if !yield(warning("%s is assigned the group %s, which does not exist.", e.Key, group)) {
				return false
			}
		}
	}
	return true
}

// groupNames accepts the usual list form as well as a single bare group name
// or a mapping keyed by group. Entries that are not scalars are skipped.
func groupNames(n *document.Node) []string {
	switch {
	case n.IsSeq():
		items := n.Items()
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it.IsScalar() {
				out = append(out, it.Text())
			}
		}
		return out
	case n.IsMap():
		return n.Keys()
	case n.IsScalar():
		return []string{n.Text()}
	}
	return nil
}

func checkPermissions(permissions *document.Node, defined bool, yield func(Diagnostic) bool) bool {
	if !defined {
		return true
	}
	for _, e := range permissions.Entries() {
		if e.Value.Empty() {
			if !yield(warning("The group %s does not have any permissions defined.", e.Key)) {
				return false
			}
		}
	}
	return true
}

func checkListeners(listeners, servers *document.Node, yield func(Diagnostic) bool) bool {
	if listeners.Empty() {
		return yield(urgent("You have no listeners defined, or they are not formatted properly."))
	}
	if !listeners.IsSeq() {
		return yield(urgent("Your listeners are not formatted properly. Listeners are formatted as a list."))
	}
	for i, l := range listeners.Items() {
		if !checkListener(i+1, l, servers, yield) {
			return false
		}
	}
	return true
}

func checkListener(number int, l, servers *document.Node, yield func(Diagnostic) bool) bool {
	if !l.Defined("host") || !l.Get("host").IsScalar() {
		return yield(urgent("Listener #%d does not have a host associated!", number))
	}
	host := l.Get("host").Text()
	hostname, _, _ := strings.Cut(host, ":")
	if hostname == "127.0.0.1" || hostname == "localhost" {
		if !yield(warning("Listener %s is running on localhost.", host)) {
			return false
		}
	}

	// Server references are only meaningful once servers exist; their
	// absence has already been reported.
	if servers == nil {
		return true
	}
	if l.Defined("fallback_server") && l.Get("fallback_server").IsScalar() {
		s := l.Get("fallback_server").Text()
		if !servers.Has(s) && !yield(warning("Listener %s has the fallback server %s, which does not exist.", host, s)) {
			return false
		}
	}
	if l.Defined("default_server") && l.Get("default_server").IsScalar() {
		s := l.Get("default_server").Text()
		if !servers.Has(s) && !yield(urgent("Listener %s has the default server %s, which does not exist!", host, s)) {
			return false
		}
	}
	for _, fh := range l.Get("forced_hosts").Entries() {
		if !fh.Value.IsScalar() {
			continue
		}
		s := fh.Value.Text()
		if !servers.Has(s) && !yield(warning("Forced host %s refers to the non-existent server %s.", fh.Key, s)) {
			return false
		}
	}
	return true
}
