// Package output projects a resolved variable set onto the host
// platform's output surface: one JSON blob carrying every variable,
// one scalar output per resolved name, and the fixed outputs
// var1..var3.
//
// Reserved output names shadow resolved variables of the same name.
// A shadowed variable still appears inside the JSON blob; only its
// scalar output slot is withheld, and the collision is reported.
package output

import (
	"encoding/json"

	"github.com/ardnew/civar/lang"
	"github.com/ardnew/civar/resolve"
)

// BlobName is the output name carrying the full variable set as JSON.
const BlobName = "all"

// FixedNames are the always-present positional outputs.
var FixedNames = [...]string{"var1", "var2", "var3"}

// Scalar is one named output in canonical scalar form.
type Scalar struct {
	Name  string
	Value string
}

// Projection is the complete ordered output surface of one run.
type Projection struct {
	Scalars  []Scalar
	Shadowed []string
}

// Reserved reports whether name is claimed by the projector itself.
func Reserved(name string) bool {
	if name == BlobName {
		return true
	}

	for _, fixed := range FixedNames {
		if name == fixed {
			return true
		}
	}

	return false
}

// Project maps a result set and the fixed positional values onto the
// output surface. The blob is emitted first, then one scalar per
// non-shadowed variable in result order, then var1..var3.
func Project(set *resolve.ResultSet, fixed [len(FixedNames)]any) (*Projection, error) {
	blob, err := json.Marshal(set)
	if err != nil {
		return nil, WrapError(err)
	}

	p := &Projection{
		Scalars: []Scalar{{Name: BlobName, Value: string(blob)}},
	}

	for _, v := range set.Variables {
		if Reserved(v.Name) {
			p.Shadowed = append(p.Shadowed, v.Name)

			continue
		}

		p.Scalars = append(p.Scalars, Scalar{
			Name:  v.Name,
			Value: lang.Canonical(v.Value),
		})
	}

	for i, name := range FixedNames {
		p.Scalars = append(p.Scalars, Scalar{
			Name:  name,
			Value: lang.Canonical(fixed[i]),
		})
	}

	return p, nil
}

// Host is the platform surface the projection writes to.
// *githubactions.Action satisfies it.
type Host interface {
	SetOutput(name, value string)
	AddStepSummary(markdown string)
}

// Write emits every scalar to the host.
func (p *Projection) Write(host Host) {
	for _, s := range p.Scalars {
		host.SetOutput(s.Name, s.Value)
	}
}
