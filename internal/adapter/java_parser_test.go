package adapter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "constscan.dev/pkg/constscan/internal/model"
)

func TestJavaParser_ConstantsOnlyClass(t *testing.T) {
	file := parseFixture(t, NewJavaParser(), "java/foo/TestClass.java")

	assert.Equal(t, m.LanguageJava, file.Language)
	assert.Equal(t, "foo", file.Package)
	require.Len(t, file.Decls, 1)

	class := file.Decls[0]
	assert.Equal(t, m.FormClass, class.Form)
	assert.Equal(t, "TestClass", class.Name)
	assert.Equal(t, 3, class.Line)

	require.Len(t, class.Members, 1)
	assert.Equal(t, m.FormField, class.Members[0].Form)
	assert.Equal(t, "str", class.Members[0].Name)
	assert.Equal(t, []string{"public", "static", "final"}, class.Members[0].Modifiers)
}

func TestJavaParser_Members(t *testing.T) {
	file := parseFixture(t, NewJavaParser(), "java/foo/Service.java")

	assert.Equal(t, "foo.service", file.Package)
	require.Len(t, file.Decls, 1)

	service := file.Decls[0]
	assert.Equal(t, []string{"public"}, service.Modifiers)
	assert.Equal(t, []string{"Base", "Runnable", "Closeable"}, service.Supertypes)

	t.Run("one field per declarator", func(t *testing.T) {
		name := declNamed(t, service.Members, "NAME")
		alias := declNamed(t, service.Members, "ALIAS")

		assert.Equal(t, m.FormField, name.Form)
		assert.Equal(t, name.Modifiers, alias.Modifiers)
		assert.True(t, declNamed(t, service.Members, "counter").HasModifier("volatile"))
	})

	t.Run("callables", func(t *testing.T) {
		ctor := declNamed(t, service.Members, "Service")
		assert.Equal(t, m.FormConstructor, ctor.Form)
		assert.Equal(t, 1, ctor.Params)

		run := declNamed(t, service.Members, "run")
		assert.Equal(t, m.FormFunction, run.Form)
		assert.Equal(t, []string{"Override"}, run.Annotations)
		assert.NotContains(t, run.Modifiers, "Override")

		initializers := 0

		for _, member := range service.Members {
			if member.Form == m.FormInitializer {
				initializers++
			}
		}

		assert.Equal(t, 1, initializers)
	})

	t.Run("nested types", func(t *testing.T) {
		listener := declNamed(t, service.Members, "Listener")
		assert.Equal(t, m.FormInterface, listener.Form)
		require.Len(t, listener.Members, 1)
		assert.Equal(t, "PRIORITY", listener.Members[0].Name)
		assert.Empty(t, listener.Members[0].Modifiers)

		mode := declNamed(t, service.Members, "Mode")
		assert.Equal(t, m.FormEnum, mode.Form)
		require.Len(t, mode.Members, 1, "enum constants are not members")
		assert.Equal(t, "DEFAULT", mode.Members[0].Name)

		assert.Equal(t, m.FormRecord, declNamed(t, service.Members, "Point").Form)
		assert.Equal(t, m.FormAnnotation, declNamed(t, service.Members, "Marker").Form)
	})
}

func TestJavaParser_SyntaxErrorsDoNotFail(t *testing.T) {
	src := []byte("package foo;\nclass Broken {\n  public static final int A = ;\n")

	file, err := NewJavaParser().Parse(context.Background(), "Broken.java", src)
	require.NoError(t, err)
	assert.Equal(t, "foo", file.Package)
}

func TestJavaParser_SyntaxErrorsBecomeUnknownDecls(t *testing.T) {
	src := []byte("package foo;\nclass Broken {\n  public static final int A = 1;\n  %% ;\n}\n")

	file, err := NewJavaParser().Parse(context.Background(), "Broken.java", src)
	require.NoError(t, err)

	broken := declNamed(t, file.Decls, "Broken")

	forms := make([]m.Form, 0, len(broken.Members))
	for _, member := range broken.Members {
		forms = append(forms, member.Form)
	}

	assert.Contains(t, forms, m.FormUnknown)
}
