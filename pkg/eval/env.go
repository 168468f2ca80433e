package eval

import (
	"sort"

	"github.com/xiaq/persistent/hash"
	"github.com/xiaq/persistent/hashmap"
	"src.lamb.sh/pkg/eval/errs"
)

// Env maps names to values. It is persistent: Extend returns a new Env
// sharing structure with the receiver, and never modifies the receiver. The
// zero value is an empty Env.
type Env struct {
	m hashmap.Map
}

var emptyMap = hashmap.New(equalName, hashName)

func equalName(k1, k2 any) bool { return k1.(string) == k2.(string) }

func hashName(k any) uint32 { return hash.String(k.(string)) }

// EmptyEnv returns an Env with no bindings.
func EmptyEnv() Env { return Env{emptyMap} }

func (env Env) inner() hashmap.Map {
	if env.m == nil {
		return emptyMap
	}
	return env.m
}

// Lookup returns the value bound to name. It fails with
// [errs.UnboundVariable] when there is no such binding.
func (env Env) Lookup(name string) (Value, error) {
	if v, ok := env.inner().Index(name); ok {
		return v.(Value), nil
	}
	return nil, errs.UnboundVariable{Name: name}
}

// Extend returns an Env with all the bindings of env, plus name bound to v.
// Any earlier binding of name is shadowed.
func (env Env) Extend(name string, v Value) Env {
	return Env{env.inner().Assoc(name, v)}
}

// Len returns the number of bindings.
func (env Env) Len() int { return env.inner().Len() }

// Names returns the bound names in sorted order.
func (env Env) Names() []string {
	names := make([]string, 0, env.Len())
	for it := env.inner().Iterator(); it.HasElem(); it.Next() {
		k, _ := it.Elem()
		names = append(names, k.(string))
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two environments bind the same names to equal values.
func (env Env) Equal(other Env) bool {
	if env.Len() != other.Len() {
		return false
	}
	m := other.inner()
	for it := env.inner().Iterator(); it.HasElem(); it.Next() {
		k, v := it.Elem()
		w, ok := m.Index(k)
		if !ok || !Equal(v.(Value), w.(Value)) {
			return false
		}
	}
	return true
}
