package shi

import (
	"fmt"
	"os"
	"strings"
)

// Config is a typed settings map, adapted from the teacher's
// config.go (same cfgVal/cfgValType shape and panic-on-mismatch
// contract), repurposed from grammar/compiler flags to interpreter
// tuning: heap size, object bucket count, trap depth, and the
// SHI_DEBUG_GC/SHI_ALWAYS_GC toggles.
type Config map[string]*cfgVal

// NewConfig creates a configuration primed with the interpreter's
// defaults.
func NewConfig() *Config {
	m := make(Config)
	m.SetInt("heap.semispace_cells", DefaultSemispaceCells)
	m.SetInt("object.buckets", 16)
	m.SetInt("trap.max_depth", 25)
	m.SetBool("gc.always", false)
	m.SetBool("gc.debug", false)
	m.SetString("history.path", "~/.shi-history")
	return &m
}

type cfgValType int

const (
	cfgValType_Undefined cfgValType = iota
	cfgValType_Bool
	cfgValType_Int
	cfgValType_String
)

func (vt cfgValType) String() string {
	return map[cfgValType]string{
		cfgValType_Undefined: "undefined",
		cfgValType_Bool:      "bool",
		cfgValType_Int:       "int",
		cfgValType_String:    "string",
	}[vt]
}

type cfgVal struct {
	typ      cfgValType
	asBool   bool
	asInt    int
	asString string
}

func (v *cfgVal) assignType(vt cfgValType) {
	if v.typ != vt && v.typ != cfgValType_Undefined {
		panic(fmt.Sprintf("Can't assign `%s` to type `%s`", vt, v.typ))
	}
	v.typ = vt
}

func (v *cfgVal) checkType(vt cfgValType) {
	if v.typ != vt {
		panic(fmt.Sprintf("Can't retrieve `%s` from `%s` variable", vt, v.typ))
	}
}

func (c *Config) SetBool(path string, v bool) {
	if _, ok := (*c)[path]; !ok {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_Bool)
	(*c)[path].asBool = v
}

func (c *Config) SetInt(path string, v int) {
	if _, ok := (*c)[path]; !ok {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_Int)
	(*c)[path].asInt = v
}

func (c *Config) SetString(path string, v string) {
	if _, ok := (*c)[path]; !ok {
		(*c)[path] = &cfgVal{}
	}
	(*c)[path].assignType(cfgValType_String)
	(*c)[path].asString = v
}

func (c *Config) GetBool(path string) bool {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Bool)
		return val.asBool
	}
	panic(fmt.Sprintf("Bool setting `%s` does not exist", path))
}

func (c *Config) GetInt(path string) int {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_Int)
		return val.asInt
	}
	panic(fmt.Sprintf("Int setting `%s` does not exist", path))
}

// GetHistoryPath reads "history.path" with a leading "~" expanded
// against $HOME, the way the original interpreter's readline-history
// primitives expect a path to behave.
func (c *Config) GetHistoryPath() string {
	p := c.GetString("history.path")
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			p = home + p[1:]
		}
	}
	return p
}

func (c *Config) GetString(path string) string {
	if val, ok := (*c)[path]; ok {
		val.checkType(cfgValType_String)
		return val.asString
	}
	panic(fmt.Sprintf("String setting `%s` does not exist", path))
}
