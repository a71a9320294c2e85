package lecture

import (
	_ "embed"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed settings.cue
var settingsCUE string

var (
	schemaOnce sync.Once
	schemaVal  cue.Value
)

func settingsSchema() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaVal = ctx.CompileString(settingsCUE).LookupPath(cue.ParsePath("#Settings"))
	})
	return schemaVal
}

// ValidateRaw checks a server-supplied settings bag against the embedded
// schema before it is parsed into a Config. A nil bag is valid (every
// default applies).
func ValidateRaw(raw RawSettings) error {
	if raw == nil {
		return nil
	}
	schema := settingsSchema()
	if err := schema.Err(); err != nil {
		return Errorf(KindValidation, "settings schema broken: %v", err)
	}
	val := schema.Context().Encode(map[string]any(raw))
	if err := schema.Unify(val).Validate(cue.Concrete(true)); err != nil {
		return Errorf(KindValidation, "settings rejected: %s", cueerrors.Details(err, nil))
	}
	return nil
}
