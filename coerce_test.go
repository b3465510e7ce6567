package configmapper

import (
	"math"
	"net"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coerce(t *testing.T, want interface{}, raw interface{}) {
	t.Helper()
	rv, err := Coerce(reflect.TypeOf(want), ValueOf(raw))
	require.NoErrorf(t, err, "coerce %#v to %T", raw, want)
	assert.Equalf(t, want, rv.Interface(), "coerce %#v to %T", raw, want)
}

func TestCoerceRoundTrip(t *testing.T) {
	cases := []interface{}{
		true, false,
		int(0), int(-1), int(math.MaxInt64), int(math.MinInt64),
		int8(0), int8(-128), int8(127),
		int16(math.MinInt16), int16(math.MaxInt16),
		int32(math.MinInt32), int32(math.MaxInt32),
		int64(math.MinInt64), int64(math.MaxInt64),
		uint(0), uint(math.MaxUint64),
		uint8(255), uint16(math.MaxUint16), uint32(math.MaxUint32), uint64(math.MaxUint64),
		float32(0), float32(-1.5), float32(math.MaxFloat32), float32(math.SmallestNonzeroFloat32),
		float64(0), float64(-2.25), math.MaxFloat64, math.SmallestNonzeroFloat64,
		"", "hello world",
	}
	for _, want := range cases {
		var text string
		switch v := want.(type) {
		case float32:
			text = strconv.FormatFloat(float64(v), 'g', -1, 32)
		case float64:
			text = strconv.FormatFloat(v, 'g', -1, 64)
		default:
			text = fmtValue(v)
		}
		coerce(t, want, text)
	}
}

func fmtValue(v interface{}) string {
	return ScalarValue(v).String()
}

func TestCoercePassThrough(t *testing.T) {
	id := uuid.New()
	coerce(t, id, id)
	coerce(t, 42, 42)
	coerce(t, 30*time.Second, 30*time.Second)
	coerce(t, []string{"a"}, []string{"a"})
}

func TestCoerceScalarConversion(t *testing.T) {
	coerce(t, 2, 2.0)
	coerce(t, int8(5), 5)
	coerce(t, "5", 5)
	coerce(t, "true", true)
	coerce(t, 3.0, 3)
	coerce(t, uint16(7), int64(7))

	for _, bad := range []struct {
		target interface{}
		raw    interface{}
	}{
		{target: 0, raw: 2.5},
		{target: int8(0), raw: int64(300)},
		{target: uint(0), raw: -1},
		{target: true, raw: 1.5},
	} {
		_, err := Coerce(reflect.TypeOf(bad.target), ValueOf(bad.raw))
		assert.Errorf(t, err, "%#v into %T", bad.raw, bad.target)
	}
}

func TestCoerceTextErrors(t *testing.T) {
	for _, bad := range []struct {
		target interface{}
		raw    string
	}{
		{target: 0, raw: "abc"},
		{target: int8(0), raw: "128"},
		{target: int8(0), raw: "-129"},
		{target: uint8(0), raw: "256"},
		{target: uint(0), raw: "-1"},
		{target: float32(0), raw: "3.5e39"},
		{target: 0.0, raw: "1.2.3"},
		{target: false, raw: "yes please"},
		{target: time.Duration(0), raw: "ten seconds"},
		{target: uuid.UUID{}, raw: "not-a-uuid"},
		{target: [1]int{}, raw: "1,2"},
		{target: []int{}, raw: "1,x"},
		{target: map[string]int{}, raw: "a"},
	} {
		_, err := Coerce(reflect.TypeOf(bad.target), TextValue(bad.raw))
		if assert.Errorf(t, err, "%q into %T", bad.raw, bad.target) {
			assert.Truef(t, IsConfigurationError(err), "%q into %T: %s", bad.raw, bad.target, err)
		}
	}
}

func TestCoerceAbsent(t *testing.T) {
	_, err := Coerce(reflect.TypeOf(""), Value{})
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
	assert.True(t, ValueOf((*int)(nil)).IsAbsent())
	assert.True(t, ValueOf(nil).IsAbsent())
	assert.True(t, ScalarValue(nil).IsAbsent())
}

func TestCoerceArrays(t *testing.T) {
	coerce(t, []string{"foo", "bar,baz", "3"}, `foo, "bar,baz", 3`)
	coerce(t, []int{1, 2, 3}, "1, 2, 3")
	coerce(t, []int{}, "")
	coerce(t, [3]int{1, 2, 0}, "1,2")
	coerce(t, []bool{true, false}, []interface{}{"true", false})
	coerce(t, []float64{1.5}, 1.5)
	coerce(t, []time.Duration{time.Second, time.Minute}, "1s,1m")
	coerce(t, []int64{4, 5}, []int{4, 5})
}

func TestCoerceSpecialTypes(t *testing.T) {
	id := uuid.New()
	coerce(t, id, id.String())
	coerce(t, 90*time.Second, "1m30s")
	coerce(t, time.Duration(1000), "1000")
	coerce(t, net.ParseIP("10.0.0.1"), "10.0.0.1")

	when := time.Date(2021, 3, 4, 5, 6, 7, 0, time.UTC)
	coerce(t, when, when.Format(time.RFC3339))

	p, err := CoerceTo[*uuid.UUID](id.String())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, id, *p)
}

func TestCoercePointers(t *testing.T) {
	p, err := CoerceTo[*int]("17")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 17, *p)

	p, err = CoerceTo[*int](18)
	require.NoError(t, err)
	assert.Equal(t, 18, *p)

	n := 19
	i, err := CoerceTo[int](&n)
	require.NoError(t, err)
	assert.Equal(t, 19, i)
}

func TestCoerceInterface(t *testing.T) {
	v, err := CoerceTo[interface{}]("text")
	require.NoError(t, err)
	assert.Equal(t, "text", v)

	v, err = CoerceTo[interface{}](3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = CoerceTo[interface{}]([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"a", "b"}, v)
}

func TestCoerceListIntoScalar(t *testing.T) {
	_, err := Coerce(reflect.TypeOf(0), ListValue(TextValue("1")))
	require.Error(t, err)
	assert.True(t, IsConfigurationError(err))
}

func TestValueOf(t *testing.T) {
	assert.Equal(t, Text, ValueOf("x").Kind())
	assert.Equal(t, Scalar, ValueOf(3).Kind())
	assert.Equal(t, Scalar, ValueOf([]byte("x")).Kind())
	assert.Equal(t, List, ValueOf([]int{1}).Kind())
	assert.Equal(t, List, ValueOf([2]int{1, 2}).Kind())
	assert.Equal(t, Absent, ValueOf([]int(nil)).Kind())
	assert.Equal(t, Absent, ValueOf(map[string]int(nil)).Kind())

	list, ok := ValueOf([]interface{}{"a", 1}).List()
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, Text, list[0].Kind())
	assert.Equal(t, Scalar, list[1].Kind())
	assert.Equal(t, "[a, 1]", ValueOf([]interface{}{"a", 1}).String())
	assert.Equal(t, "<absent>", Value{}.String())
	assert.Equal(t, "text", Text.String())
}
