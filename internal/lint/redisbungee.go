package lint

import (
	"iter"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/document"
)

// redisBungeeRequired lists the fields RedisBungee refuses to start without.
var redisBungeeRequired = []string{"redis-server", "server-id"}

// RedisBungee checks a RedisBungee config.yml.
type RedisBungee struct{}

func (RedisBungee) Dialect() Dialect { return DialectRedisBungee }

func (RedisBungee) Check(doc *document.Node) iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, field := range redisBungeeRequired {
			v := doc.Get(field)
			switch {
			case v.IsNull():
				if !yield(urgent("%s is missing from your configuration!", field)) {
					return
				}
			case v.IsString() && v.Text() == "":
				if !yield(urgent("%s is empty!", field)) {
					return
				}
			}
		}
	}
}
