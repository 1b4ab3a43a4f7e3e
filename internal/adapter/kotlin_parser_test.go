package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "constscan.dev/pkg/constscan/internal/model"
)

func TestKotlinParser_SealedHierarchy(t *testing.T) {
	file := parseFixture(t, NewKotlinParser(), "kotlin/foo/Sealed.kt")

	assert.Equal(t, m.LanguageKotlin, file.Language)
	assert.Equal(t, "foo", file.Package)
	require.Len(t, file.Decls, 1)

	base := file.Decls[0]
	assert.Equal(t, m.FormClass, base.Form)
	assert.Equal(t, "ActionStatus", base.Name)
	assert.True(t, base.HasModifier("sealed"))
	require.Len(t, base.Members, 3)

	for _, sub := range base.Members {
		assert.Equal(t, m.FormClass, sub.Form, sub.Name)
		assert.Equal(t, []string{"ActionStatus"}, sub.Supertypes, sub.Name)
	}

	finished := declNamed(t, base.Members, "Finished")
	require.NotNil(t, finished.PrimaryConstructor)
	assert.Equal(t, 1, finished.PrimaryConstructor.Params)
	require.Len(t, finished.PrimaryConstructor.Members, 1)
	assert.Equal(t, "value", finished.PrimaryConstructor.Members[0].Name)
	assert.Equal(t, "val", finished.PrimaryConstructor.Members[0].Binding)
}

func TestKotlinParser_Declarations(t *testing.T) {
	file := parseFixture(t, NewKotlinParser(), "kotlin/foo/Database.kt")

	assert.Equal(t, "foo.db", file.Package)

	t.Run("top level", func(t *testing.T) {
		version := declNamed(t, file.Decls, "APP_DATABASE_VERSION")
		assert.Equal(t, m.FormProperty, version.Form)
		assert.Equal(t, "val", version.Binding)
		assert.True(t, version.HasModifier("const"))

		assert.Equal(t, m.FormFunction, declNamed(t, file.Decls, "foo").Form)
		assert.Equal(t, m.FormTypeAlias, declNamed(t, file.Decls, "SomeMap").Form)
	})

	t.Run("annotated abstract class", func(t *testing.T) {
		db := declNamed(t, file.Decls, "AppDatabase")
		assert.Equal(t, m.FormClass, db.Form)
		assert.True(t, db.HasModifier("abstract"))
		assert.Equal(t, []string{"Database"}, db.Annotations)
		assert.Equal(t, []string{"RoomDatabase"}, db.Supertypes)
		require.Len(t, db.Members, 1)
		assert.Equal(t, m.FormFunction, db.Members[0].Form)
	})

	t.Run("data class", func(t *testing.T) {
		data := declNamed(t, file.Decls, "SomeDataClass")
		assert.True(t, data.HasModifier("data"))
		require.NotNil(t, data.PrimaryConstructor)
		assert.Equal(t, 2, data.PrimaryConstructor.Params)
		require.Len(t, data.PrimaryConstructor.Members, 2)
		assert.True(t, data.PrimaryConstructor.Members[1].HasModifier("private"))
	})

	t.Run("enum and interface", func(t *testing.T) {
		assert.Equal(t, m.FormEnum, declNamed(t, file.Decls, "LegalNoticeStatus").Form)

		api := declNamed(t, file.Decls, "SomeApi")
		assert.Equal(t, m.FormInterface, api.Form)
		require.Len(t, api.Members, 1)
		assert.Equal(t, 2, api.Members[0].Params)
	})

	t.Run("object properties", func(t *testing.T) {
		keys := declNamed(t, file.Decls, "Keys")
		assert.Equal(t, m.FormObject, keys.Form)

		key := declNamed(t, keys.Members, "KEY")
		assert.True(t, key.HasModifier("const"))
		assert.False(t, key.HasAccessors)

		session := declNamed(t, keys.Members, "session")
		assert.True(t, session.HasModifier("lateinit"))
		assert.Equal(t, "var", session.Binding)

		assert.True(t, declNamed(t, keys.Members, "computed").HasAccessors)
	})

	t.Run("companion, initializer and constructors", func(t *testing.T) {
		class := declNamed(t, file.Decls, "TestClass")
		require.NotNil(t, class.PrimaryConstructor)
		assert.Equal(t, 1, class.PrimaryConstructor.Params)
		assert.Empty(t, class.PrimaryConstructor.Members, "plain parameters are not properties")

		companion := declNamed(t, class.Members, "Companion")
		assert.Equal(t, m.FormCompanion, companion.Form)
		require.Len(t, companion.Members, 1)
		assert.Equal(t, "str", companion.Members[0].Name)

		forms := make([]m.Form, 0, len(class.Members))
		for _, member := range class.Members {
			forms = append(forms, member.Form)
		}

		assert.ElementsMatch(t, []m.Form{m.FormCompanion, m.FormInitializer, m.FormConstructor}, forms)
		assert.Equal(t, 0, declNamed(t, class.Members, "constructor").Params)
	})
}

func TestKotlinParser_ScriptWithoutPackage(t *testing.T) {
	src := []byte("val greeting = \"hi\"\nprintln(greeting)\n")

	file, err := NewKotlinParser().Parse(context.Background(), "build.gradle.kts", src)
	require.NoError(t, err)
	assert.Empty(t, file.Package)
	require.Len(t, file.Decls, 1)
	assert.Equal(t, "greeting", file.Decls[0].Name)
}

func TestKotlinParser_TopLevelAccessors(t *testing.T) {
	src := []byte("package foo\n\nval now: Long\n    get() = 1L\n\nconst val VERSION = 1\n")

	file, err := NewKotlinParser().Parse(context.Background(), "Top.kt", src)
	require.NoError(t, err)

	assert.True(t, declNamed(t, file.Decls, "now").HasAccessors)
	assert.False(t, declNamed(t, file.Decls, "VERSION").HasAccessors)
}

func TestKotlinParser_SyntaxErrorsBecomeUnknownDecls(t *testing.T) {
	file, err := NewKotlinParser().Parse(context.Background(), "Oops.kt", []byte("package foo\n\nclass Oops { fun ( }\n"))
	require.NoError(t, err)

	oops := declNamed(t, file.Decls, "Oops")
	require.NotEmpty(t, oops.Members)
	assert.Equal(t, m.FormUnknown, oops.Members[len(oops.Members)-1].Form)
}
