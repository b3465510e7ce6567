package configmapper

import (
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type configBase struct {
	ParentField string `config:",position=0"`
}

type nestedConfig struct {
	NestedField string `config:"" desc:"nested config field"`
}

type testConfig struct {
	configBase
	NoAnnotations  bool
	Required       int          `config:",required,position=1"`
	DefaultField   string       `config:"" desc:"World to teleport the player to."`
	AllAnnotations float64      `config:",required" desc:"Required field with default value."`
	Ignored        string       `config:"-"`
	Nested         nestedConfig `config:""`
	myFinalField   string
}

func newTestConfig() *testConfig {
	return &testConfig{
		configBase:     configBase{ParentField: "foobar"},
		DefaultField:   "world",
		AllAnnotations: 2.0,
		Nested:         nestedConfig{NestedField: "foobar"},
		myFinalField:   "is ignored",
	}
}

type configuredObject struct {
	Val1    string     `config:""`
	Val2    bool       `config:""`
	Test    testConfig `config:""`
	Ignored float64
}

func newConfiguredObject() *configuredObject {
	return &configuredObject{
		Val1:    "foo",
		Test:    *newTestConfig(),
		Ignored: 1.0,
	}
}

type annotatedClass struct {
	Configurable
	Foo     int
	Bar     string
	Ignored float64 `config:"-"`
	private string
}

type arrayConfig struct {
	Configurable
	Foo   int
	Array []string
}

type abstractBase struct {
	Duration int `config:""`
}

type subClass struct {
	abstractBase
	Annotated annotatedClass `config:""`
}

type subClassWithParentFields struct {
	Sub *subClass `config:""`
}

type samePositionConfig struct {
	Pos1 int `config:",position=1"`
	Pos2 int `config:",position=1"`
}

type finalConfig struct {
	myFinalField int `config:""`
}

func catalogOf(t *testing.T, model interface{}) Catalog {
	m, err := Of(model, WithoutCache())
	require.NoError(t, err, "catalog %T", model)
	return m.Catalog()
}

func TestCatalogIncludesEmbeddedFields(t *testing.T) {
	c := catalogOf(t, newTestConfig())
	assert.Equal(t, []string{
		"all_annotations",
		"default_field",
		"nested.nested_field",
		"parent_field",
		"required",
	}, c.Identifiers())
}

func TestCatalogDeeplyNested(t *testing.T) {
	c := catalogOf(t, reflect.TypeOf(subClassWithParentFields{}))
	assert.Equal(t, []string{
		"sub.annotated.bar",
		"sub.annotated.foo",
		"sub.duration",
	}, c.Identifiers())
	for _, id := range c.Identifiers() {
		d, ok := c.Lookup(id)
		require.True(t, ok, id)
		assert.True(t, d.Nested(), id)
	}
}

func TestCatalogNeverHasNestedBase(t *testing.T) {
	c := catalogOf(t, newTestConfig())
	_, ok := c.Lookup("nested")
	assert.False(t, ok, "nested")
	_, ok = c.Lookup("ignored")
	assert.False(t, ok, "ignored")
	_, ok = c.Lookup("no_annotations")
	assert.False(t, ok, "no_annotations")
	_, ok = c.Lookup("my_final_field")
	assert.False(t, ok, "my_final_field")
}

func TestCatalogFieldAttributes(t *testing.T) {
	c := catalogOf(t, newTestConfig())

	required, ok := c.Lookup("required")
	require.True(t, ok)
	assert.True(t, required.Required, "required")
	assert.Equal(t, 1, required.Position, "position")
	assert.Equal(t, "Required", required.Name)
	assert.Equal(t, reflect.TypeOf(0), required.Type)

	parent, ok := c.Lookup("parent_field")
	require.True(t, ok)
	assert.Equal(t, 0, parent.Position, "position")
	assert.Equal(t, "foobar", parent.Default)

	def, ok := c.Lookup("default_field")
	require.True(t, ok)
	assert.Equal(t, []string{"World to teleport the player to."}, def.Description)
	assert.Equal(t, "world", def.Default)
	assert.False(t, def.Required)
	assert.Equal(t, -1, def.Position)
	assert.False(t, def.Positional())

	all, ok := c.Lookup("all_annotations")
	require.True(t, ok)
	assert.Equal(t, 2.0, all.Default)
	assert.Equal(t, []string{"Required field with default value."}, all.Description)
	assert.True(t, all.Required)

	nested, ok := c.Lookup("nested.nested_field")
	require.True(t, ok)
	assert.Equal(t, []string{"nested config field"}, nested.Description)
	assert.Equal(t, "foobar", nested.Default)
	assert.Equal(t, "NestedField", nested.Name)

	at, ok := c.AtPosition(1)
	require.True(t, ok)
	assert.Equal(t, "required", at.Identifier)
	_, ok = c.AtPosition(2)
	assert.False(t, ok)
}

func TestCatalogLookupReturnsCopies(t *testing.T) {
	c := catalogOf(t, newTestConfig())
	d, ok := c.Lookup("default_field")
	require.True(t, ok)
	d.Description[0] = "changed"
	again, _ := c.Lookup("default_field")
	assert.Equal(t, "World to teleport the player to.", again.Description[0])
}

func TestCatalogIsStable(t *testing.T) {
	a := catalogOf(t, newConfiguredObject())
	b := catalogOf(t, newConfiguredObject())
	assert.Equal(t, a.Identifiers(), b.Identifiers())
	assert.Equal(t, a.Fields(), b.Fields())
}

func TestCatalogDefaultsWithoutInstance(t *testing.T) {
	c := catalogOf(t, reflect.TypeOf(testConfig{}))
	d, ok := c.Lookup("default_field")
	require.True(t, ok)
	assert.Equal(t, "", d.Default)
}

func TestCatalogAnnotatedType(t *testing.T) {
	c := catalogOf(t, &annotatedClass{})
	assert.Equal(t, []string{"bar", "foo"}, c.Identifiers())

	c = catalogOf(t, &arrayConfig{})
	assert.Equal(t, []string{"array", "foo"}, c.Identifiers())
	d, ok := c.Lookup("array")
	require.True(t, ok)
	assert.Equal(t, []string{}, d.Default, "nil slices default to empty")
}

func TestCatalogSamePosition(t *testing.T) {
	_, err := Of(samePositionConfig{}, WithoutCache())
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, "found same position 1 on the following fields: pos1,pos2", err.Error())
}

func TestCatalogSamePositionAcrossLevels(t *testing.T) {
	type inner struct {
		A int `config:",position=0"`
	}
	type outer struct {
		B     int   `config:",position=0"`
		Inner inner `config:""`
	}
	_, err := Of(outer{}, WithoutCache())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same position 0")
	assert.Contains(t, err.Error(), "b,inner.a")
}

func TestCatalogUnexportedTaggedField(t *testing.T) {
	_, err := Of(finalConfig{}, WithoutCache())
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.Contains(t, err.Error(), "myFinalField")
}

func TestCatalogInvalidType(t *testing.T) {
	for _, model := range []interface{}{nil, 42, "string", []int{1}, reflect.TypeOf(3.2)} {
		_, err := Of(model)
		require.Errorf(t, err, "%T", model)
		assert.Truef(t, errors.Is(err, ErrInvalidConfigType), "%T: %s", model, err)
		assert.Truef(t, IsConfigurationError(err), "%T", model)
	}
}

func TestCatalogShadowing(t *testing.T) {
	type base struct {
		Name  string `config:"name" desc:"base"`
		Other int    `config:""`
	}
	type derived struct {
		base
		Name string `config:"name" desc:"own"`
	}
	c := catalogOf(t, &derived{})
	assert.Equal(t, []string{"name", "other"}, c.Identifiers())
	d, _ := c.Lookup("name")
	assert.Equal(t, []string{"own"}, d.Description)
}

func TestCatalogMarkerPromotedFromEmbedded(t *testing.T) {
	type base struct {
		Configurable
		Host string
	}
	type derived struct {
		base
		Port int
	}
	c := catalogOf(t, &derived{})
	assert.Equal(t, []string{"host", "port"}, c.Identifiers())
}

func TestCatalogNamedEmbeddedIsNested(t *testing.T) {
	type server struct {
		Port int `config:""`
	}
	type withName struct {
		server `config:"srv"`
	}
	_, err := Of(withName{}, WithoutCache())
	require.Error(t, err, "unexported embedded struct cannot be written")

	type Server struct {
		Port int `config:""`
	}
	type withExported struct {
		Server `config:"srv"`
	}
	c := catalogOf(t, withExported{})
	assert.Equal(t, []string{"srv.port"}, c.Identifiers())
}

func TestCatalogRecursiveType(t *testing.T) {
	type node struct {
		Value int   `config:""`
		Next  *node `config:""`
	}
	_, err := Of(node{}, WithoutCache())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursive")
}

func TestCatalogDuplicateIdentifier(t *testing.T) {
	type dup struct {
		A int `config:"x"`
		B int `config:"x"`
	}
	_, err := Of(dup{}, WithoutCache())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"x"`)
}

func TestCatalogUnsupportedType(t *testing.T) {
	type bad struct {
		M map[string]int `config:""`
	}
	_, err := Of(bad{}, WithoutCache())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be configured")

	type skipped struct {
		Configurable
		M map[string]int
		C chan int
		N int
	}
	c := catalogOf(t, skipped{})
	assert.Equal(t, []string{"n"}, c.Identifiers())
}

func TestCatalogNegativePosition(t *testing.T) {
	type negative struct {
		A int `config:",position=-2"`
	}
	_, err := Of(negative{}, WithoutCache())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position")
}

func TestCatalogLeafTypes(t *testing.T) {
	type leaves struct {
		Configurable
		ID       uuid.UUID
		When     time.Time
		Timeout  time.Duration
		Count    *int
		Tags     [2]string
		Anything interface{}
		Ptr      *nestedConfig
	}
	c := catalogOf(t, leaves{})
	assert.Equal(t, []string{
		"anything",
		"count",
		"id",
		"ptr.nested_field",
		"tags",
		"timeout",
		"when",
	}, c.Identifiers())
}

func TestBuildCatalog(t *testing.T) {
	c, err := BuildCatalog(reflect.TypeOf(configuredObject{}), newConfiguredObject(), LowerCamel)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"test.allAnnotations",
		"test.defaultField",
		"test.nested.nestedField",
		"test.parentField",
		"test.required",
		"val1",
		"val2",
	}, c.Identifiers())
	assert.Equal(t, reflect.TypeOf(configuredObject{}), c.Type())
	assert.Equal(t, 7, c.Len())

	_, err = BuildCatalog(reflect.TypeOf(configuredObject{}), &testConfig{}, nil)
	require.Error(t, err, "instance of the wrong type")
}

func TestCatalogWithTag(t *testing.T) {
	type alt struct {
		A int `cfg:"alpha"`
		B int `config:"beta"`
	}
	c := catalogOf(t, alt{})
	assert.Equal(t, []string{"beta"}, c.Identifiers())

	m, err := Of(alt{}, WithTag("cfg"))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, m.Catalog().Identifiers())
}
