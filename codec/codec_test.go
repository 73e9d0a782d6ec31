package codec

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type User struct {
	Name   string   `json:"name"`
	Age    int      `json:"age"`
	Email  *string  `json:"email"`
	Tags   []string `json:"tags"`
	Active bool     `json:"active"`
}

type Page[T any] struct {
	Total int `json:"total"`
	Items []T `json:"items"`
}

type Result[T any] struct {
	Code int `json:"code"`
	Data T   `json:"data"`
}

type Event struct {
	Name string    `json:"name"`
	At   time.Time `json:"at"`
}

func jack() User {
	return User{Name: "jack", Age: 18, Tags: []string{"a", "b"}}
}

func TestToJSON(t *testing.T) {
	out, err := ToJSON(jack())
	require.NoError(t, err)
	assert.Equal(t, `{"active":false,"age":18,"name":"jack","tags":["a","b"]}`, out)

	out, err = ToJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", out)

	out, err = ToJSON(map[string]string{"html": "<b>&</b>"})
	require.NoError(t, err)
	assert.Equal(t, `{"html":"<b>&</b>"}`, out)
}

func TestToJSON_Settings(t *testing.T) {
	m := NewMapper(Config{})
	out, err := m.Marshal(FormatJSON, jack())
	require.NoError(t, err)
	assert.Equal(t, `{"name":"jack","age":18,"email":null,"tags":["a","b"],"active":false}`, out)

	m = NewMapper(Config{SkipNulls: true, Indent: "  "})
	out, err = m.Marshal(FormatJSON, map[string]any{"a": 1, "b": nil})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}", out)
}

func TestFromJSON(t *testing.T) {
	user, err := FromJSON[User](`{"name":"jack","age":18,"tags":["a","b"],"unknown":{"x":1}}`)
	require.NoError(t, err)
	assert.Equal(t, jack(), user)

	ptr, err := FromJSON[*User](`null`)
	require.NoError(t, err)
	assert.Nil(t, ptr)
}

func TestFromJSON_Generic(t *testing.T) {
	res, err := FromJSON[Result[Page[User]]](`{"code":0,"data":{"total":1,"items":[{"name":"jack","age":18}]}}`)
	require.NoError(t, err)
	require.Len(t, res.Data.Items, 1)
	assert.Equal(t, 1, res.Data.Total)
	assert.Equal(t, "jack", res.Data.Items[0].Name)
}

func TestFromJSON_EmptyArrayAsNull(t *testing.T) {
	res, err := FromJSON[Result[*Page[User]]](`{"code":1,"data":[]}`)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Code)
	assert.Nil(t, res.Data)

	// lists keep their empty arrays
	page, err := FromJSON[Page[User]](`{"items":[]}`)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)

	cfg := DefaultConfig()
	cfg.EmptyArrayAsNull = false
	_, err = Unmarshal[Result[Page[User]]](NewMapper(cfg), FormatJSON, `{"code":1,"data":[]}`)
	require.Error(t, err)
}

func TestFromJSON_UnknownMembers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IgnoreUnknown = false

	_, err := Unmarshal[User](NewMapper(cfg), FormatJSON, `{"name":"jack","extra":1}`)
	require.ErrorIs(t, err, ErrDecode)
}

func TestFromJSON_TrailingData(t *testing.T) {
	for _, input := range []string{
		`{"name":"a"} trailing`,
		`{"name":"a","tags":["x"]} trailing`,
	} {
		_, err := FromJSON[User](input)
		require.ErrorIs(t, err, ErrDecode, input)
		require.ErrorIs(t, err, ErrSyntax, input)
	}

	user, err := FromJSON[User](" {\"name\":\"a\"}\n")
	require.NoError(t, err)
	assert.Equal(t, "a", user.Name)
}

func TestFromJSON_ControlChars(t *testing.T) {
	user, err := FromJSON[User]("{\"name\":\"a\tb\nc\"}")
	require.NoError(t, err)
	assert.Equal(t, "a\tb\nc", user.Name)

	assert.Equal(t, []byte(`{"a":"\"x\u0009"}`), escapeControlChars([]byte("{\"a\":\"\\\"x\t\"}")))
	raw := []byte(`{"a":1}`)
	assert.Equal(t, raw, escapeControlChars(raw))
}

func TestListAndMap(t *testing.T) {
	users, err := ListFromJSON[User](`[{"name":"a"},{"name":"b"}]`)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "b", users[1].Name)

	m, err := MapFromJSON[string, int](`{"a":1,"b":2}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)

	byName, err := MapFromJSON[string, User](`{"jack":{"name":"jack","age":18,"tags":["a","b"]}}`)
	require.NoError(t, err)
	assert.Equal(t, jack(), byName["jack"])
}

func TestDecodeJSON(t *testing.T) {
	v, err := DecodeJSON(`{"name":"jack","age":18,"tags":["a","b"]}`, reflect.TypeFor[User]())
	require.NoError(t, err)
	assert.Equal(t, jack(), v)

	_, err = DecodeJSON(`{}`, nil)
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestErrors(t *testing.T) {
	_, err := FromJSON[User](`{bad`)
	require.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrEncode)
	assert.True(t, strings.HasPrefix(err.Error(), "not able to convert json string: {bad: "))

	var codecErr *Error
	require.ErrorAs(t, err, &codecErr)
	assert.Equal(t, FormatJSON, codecErr.Format)
	assert.Equal(t, OpDecode, codecErr.Op)

	_, err = ToJSON(make(chan int))
	require.ErrorIs(t, err, ErrEncode)
	assert.True(t, strings.HasPrefix(err.Error(), "not able to convert object to json: "))

	_, err = ToXML(func() {})
	require.ErrorIs(t, err, ErrEncode)
	assert.True(t, strings.HasPrefix(err.Error(), "not able to convert object to xml: "))

	_, err = FromXML[User](`<User><name>`)
	require.ErrorIs(t, err, ErrDecode)
	assert.True(t, strings.HasPrefix(err.Error(), "not able to convert xml string: "))

	long := strings.Repeat("x", 1000)
	_, err = FromJSON[User](long)
	require.ErrorAs(t, err, &codecErr)
	assert.Len(t, codecErr.Input, maxInputLen+len("..."))

	err = Default().Unmarshal(FormatJSON, `{}`, User{})
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func TestTruncate(t *testing.T) {
	s := strings.Repeat("a", maxInputLen-1) + "中文"
	out := truncate(s)
	assert.Equal(t, strings.Repeat("a", maxInputLen-1)+"...", out)
}

func TestToXML(t *testing.T) {
	out, err := ToXML(jack())
	require.NoError(t, err)
	assert.Equal(t,
		`<User><active>false</active><age>18</age><name>jack</name><tags><tags>a</tags><tags>b</tags></tags></User>`,
		out)

	out, err = ToXML([]User{{Name: "a"}})
	require.NoError(t, err)
	assert.Equal(t, `<root><item><active>false</active><age>0</age><name>a</name></item></root>`, out)

	out, err = ToXML(Page[User]{Total: 0})
	require.NoError(t, err)
	assert.Equal(t, `<Page><total>0</total></Page>`, out)

	out, err = ToXML(nil)
	require.NoError(t, err)
	assert.Equal(t, `<null/>`, out)

	out, err = ToXML(map[string]string{"a&b": "<x>"})
	require.NoError(t, err)
	assert.Equal(t, `<root><a_b>&lt;x&gt;</a_b></root>`, out)

	cfg := DefaultConfig()
	cfg.XMLRoot = "person"
	out, err = NewMapper(cfg).Marshal(FormatXML, User{Name: "x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<person>"))
}

func TestFromXML(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want User
	}{
		{
			name: "wrapped list",
			xml:  `<User><active>true</active><age>18</age><name>jack</name><tags><tags>a</tags><tags>b</tags></tags></User>`,
			want: User{Name: "jack", Age: 18, Active: true, Tags: []string{"a", "b"}},
		},
		{
			name: "unwrapped list",
			xml:  `<User><tags>a</tags><tags>b</tags></User>`,
			want: User{Tags: []string{"a", "b"}},
		},
		{
			name: "single element list",
			xml:  `<User><tags>a</tags></User>`,
			want: User{Tags: []string{"a"}},
		},
		{
			name: "single wrapped element",
			xml:  `<User><tags><tags>a</tags></tags></User>`,
			want: User{Tags: []string{"a"}},
		},
		{
			name: "attributes and unknown elements",
			xml:  `<User name="jack"><age> 3 </age><nickname>j</nickname></User>`,
			want: User{Name: "jack", Age: 3},
		},
		{
			name: "indented",
			xml:  "<User>\n  <name>jack</name>\n  <tags/>\n</User>",
			want: User{Name: "jack", Tags: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromXML[User](tt.xml)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestXMLRoundTrip(t *testing.T) {
	at := time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC)
	out, err := ToXML(Result[Page[Event]]{Data: Page[Event]{Total: 2, Items: []Event{{Name: "a", At: at}, {Name: "b", At: at}}}})
	require.NoError(t, err)

	res, err := FromXML[Result[Page[Event]]](out)
	require.NoError(t, err)
	require.Len(t, res.Data.Items, 2)
	assert.Equal(t, 2, res.Data.Total)
	assert.Equal(t, "b", res.Data.Items[1].Name)
	assert.True(t, at.Equal(res.Data.Items[0].At))

	users, err := ListFromXML[User](`<root><item><name>a</name></item></root>`)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a", users[0].Name)

	m, err := MapFromXML[string, int](`<root><a>1</a><b>2</b></root>`)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, m)

	ptr, err := FromXML[*User](`<null/>`)
	require.NoError(t, err)
	assert.Nil(t, ptr)

	v, err := DecodeXML(`<root><a>x</a><a>y</a><b>z</b></root>`, reflect.TypeFor[any]())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{"x", "y"}, "b": "z"}, v)
}

func TestParseNode(t *testing.T) {
	node, err := ParseNode(`{"a":{"b":[1,2]}}`)
	require.NoError(t, err)
	assert.Equal(t, int64(2), node.Get("a.b.1").Int())

	node, err = ParseNode("{\"a\":\"x\ny\"}")
	require.NoError(t, err)
	assert.Equal(t, "x\ny", node.Get("a").String())

	_, err = ParseNode(`{`)
	require.ErrorIs(t, err, ErrDecode)
}

func TestObjectNode(t *testing.T) {
	n := NewObjectNode().Put("z", 1).Put("a", "x")
	n.PutObject("o").Put("k", true)
	n.Put("z", 2)

	assert.Equal(t, `{"z":2,"a":"x","o":{"k":true}}`, n.String())
	assert.Equal(t, 3, n.Len())

	v, ok := n.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	out, err := ToJSON(n)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","o":{"k":true},"z":2}`, out)

	n.Remove("a")
	n.Remove("missing")
	assert.Equal(t, []string{"z", "o"}, n.Keys())

	assert.Equal(t, `{"<b>":"&"}`, NewObjectNode().Put("<b>", "&").String())
}

func TestConfig(t *testing.T) {
	cfg, err := ParseConfig([]byte("skip_nulls: false\nindent: \"  \"\nxml_root: doc\n"))
	require.NoError(t, err)
	assert.False(t, cfg.SkipNulls)
	assert.True(t, cfg.SortProperties)
	assert.Equal(t, "  ", cfg.Indent)
	assert.Equal(t, "doc", cfg.XMLRoot)

	path := filepath.Join(t.TempDir(), "codec.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort_properties: false\n"), 0o600))
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.SortProperties)
	assert.True(t, cfg.SkipNulls)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	_, err = ParseConfig([]byte("skip_nulls: [1"))
	require.Error(t, err)
}

func ExampleToJSON() {
	out, _ := ToJSON(struct {
		B int     `json:"b"`
		A *string `json:"a"`
		C []int   `json:"c"`
	}{B: 1, C: []int{}})
	fmt.Println(out)
	// Output: {"b":1,"c":[]}
}

func ExampleToXML() {
	out, _ := ToXML(User{Name: "jack", Tags: []string{"a"}})
	fmt.Println(out)
	// Output: <User><active>false</active><age>0</age><name>jack</name><tags><tags>a</tags></tags></User>
}

func TestNormalize(t *testing.T) {
	out, err := Default().Normalize("{ \"b\": null, \"a\": [1, {\"d\": 1, \"c\": \"x\ty\"}] }")
	require.NoError(t, err)
	assert.Equal(t, `{"a":[1,{"c":"x\u0009y","d":1}]}`, out)

	_, err = Default().Normalize(`{"a":`)
	require.ErrorIs(t, err, ErrDecode)
}

func TestJSONToXML(t *testing.T) {
	out, err := Default().JSONToXML(`{"name":"jack","tags":["a","b"],"none":null}`)
	require.NoError(t, err)
	assert.Equal(t, `<root><name>jack</name><tags><tags>a</tags><tags>b</tags></tags></root>`, out)

	cfg := DefaultConfig()
	cfg.XMLRoot = "users"
	out, err = NewMapper(cfg).JSONToXML(`[1,2]`)
	require.NoError(t, err)
	assert.Equal(t, `<users><item>1</item><item>2</item></users>`, out)

	out, err = Default().JSONToXML(`null`)
	require.NoError(t, err)
	assert.Equal(t, `<null/>`, out)
}
