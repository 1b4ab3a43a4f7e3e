package rule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "constscan.dev/pkg/constscan/internal/model"
)

func members(roles ...m.Role) []m.Member {
	out := make([]m.Member, 0, len(roles))
	for i, role := range roles {
		out = append(out, m.Member{Name: role.String() + string(rune('A'+i)), Role: role})
	}

	return out
}

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		unit m.DeclarationUnit
		want m.Verdict
	}{
		{
			name: "class with constant and method",
			unit: m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.Constant, m.Method)},
			want: m.Pass,
		},
		{
			name: "class with constant and instance field",
			unit: m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.Constant, m.InstanceField)},
			want: m.Pass,
		},
		{
			name: "class with a single constant",
			unit: m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.Constant)},
			want: m.Violation,
		},
		{
			name: "object with a single constant",
			unit: m.DeclarationUnit{Kind: m.SingletonObject, Members: members(m.Constant)},
			want: m.Violation,
		},
		{
			name: "sealed base with three subtypes",
			unit: m.DeclarationUnit{Kind: m.SealedBase, Members: members(m.NestedType, m.NestedType, m.NestedType)},
			want: m.Pass,
		},
		{
			name: "file with constant and function",
			unit: m.DeclarationUnit{Kind: m.FileScope, Members: members(m.Constant, m.Method)},
			want: m.Pass,
		},
		{
			name: "file with only a constant",
			unit: m.DeclarationUnit{Kind: m.FileScope, Members: members(m.Constant)},
			want: m.Violation,
		},
		{
			name: "empty class",
			unit: m.DeclarationUnit{Kind: m.OrdinaryType},
			want: m.Violation,
		},
		{
			name: "empty object",
			unit: m.DeclarationUnit{Kind: m.SingletonObject},
			want: m.Violation,
		},
		{
			name: "class with only a nested type",
			unit: m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.NestedType)},
			want: m.Pass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.unit))
		})
	}
}

func TestEvaluate_ExemptKindsAlwaysPass(t *testing.T) {
	contents := [][]m.Member{
		nil,
		members(m.Constant),
		members(m.Constant, m.Constant, m.Constant),
		members(m.Method),
		members(m.InstanceField, m.NestedType),
	}

	for _, kind := range ExemptKinds() {
		for _, list := range contents {
			unit := m.DeclarationUnit{Kind: kind, Members: list}
			assert.Equal(t, m.Pass, Evaluate(unit), "kind %s with %d members", kind, len(list))
		}
	}
}

func TestEvaluate_CheckedKinds(t *testing.T) {
	checked := []m.Kind{m.OrdinaryType, m.SingletonObject, m.FileScope}

	for _, kind := range checked {
		t.Run(kind.String(), func(t *testing.T) {
			assert.Equal(t, m.Violation, Evaluate(m.DeclarationUnit{Kind: kind, Members: members(m.Constant, m.Constant)}))

			for _, role := range []m.Role{m.InstanceField, m.Method, m.NestedType} {
				unit := m.DeclarationUnit{Kind: kind, Members: members(m.Constant, role)}
				assert.Equal(t, m.Pass, Evaluate(unit), "role %s", role)
			}
		})
	}
}

func TestEvaluate_MemberOrderIrrelevant(t *testing.T) {
	forward := m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.Constant, m.Constant, m.Method)}
	backward := m.DeclarationUnit{Kind: m.OrdinaryType, Members: members(m.Method, m.Constant, m.Constant)}

	assert.Equal(t, Evaluate(forward), Evaluate(backward))
}

func TestIsExempt(t *testing.T) {
	assert.ElementsMatch(t,
		[]m.Kind{m.SealedBase, m.DataHolder, m.EnumType, m.InterfaceType},
		ExemptKinds())
	assert.False(t, IsExempt(m.Kind(42)))
}

func TestCheck(t *testing.T) {
	t.Run("violation produces a finding", func(t *testing.T) {
		unit := m.DeclarationUnit{
			Kind:     m.OrdinaryType,
			Members:  members(m.Constant),
			Identity: m.Identity{Path: "src/foo/TestClass.java", Name: "foo.TestClass", Line: 3},
		}

		finding, ok := Check(unit)
		require.True(t, ok)
		assert.Equal(t, m.RuleID, finding.Rule)
		assert.Equal(t, unit.Identity, finding.Identity)
		assert.Equal(t, "ordinary", finding.KindName)
		assert.Contains(t, finding.Message, "foo.TestClass contains only constants")
	})

	t.Run("pass produces nothing", func(t *testing.T) {
		_, ok := Check(m.DeclarationUnit{Kind: m.EnumType})
		assert.False(t, ok)
	})

	t.Run("messages follow the unit shape", func(t *testing.T) {
		file, ok := Check(m.DeclarationUnit{Kind: m.FileScope, Members: members(m.Constant), Identity: m.Identity{Name: "foo.ConstantsKt"}})
		require.True(t, ok)
		assert.Contains(t, file.Message, "file-level declarations of foo.ConstantsKt")

		empty, ok := Check(m.DeclarationUnit{Kind: m.OrdinaryType, Identity: m.Identity{Name: "Empty"}})
		require.True(t, ok)
		assert.Equal(t, "Empty declares no members", empty.Message)

		object, ok := Check(m.DeclarationUnit{Kind: m.SingletonObject, Members: members(m.Constant), Identity: m.Identity{Name: "Keys"}})
		require.True(t, ok)
		assert.Contains(t, object.Message, "object Keys")
	})
}
