package convert

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"common-tools/internal/plan"
	"common-tools/logger"
	"common-tools/primitive"
)

type FiledDO struct {
	Filed string
}

type FiledVO struct {
	Filed string
}

type EmployeeDO struct {
	Age            *int
	Name           string
	Salary         float64
	Bir            time.Time
	FriendNameList []string
	FiledDOS       []*FiledDO
}

type EmployeeVO struct {
	Age            *int
	Name           string
	Salary         float64
	Bir            time.Time
	FriendNameList []string
	FiledVOS       []*FiledVO
}

func employees() []*EmployeeDO {
	jackAge, sariAge := 18, 21
	bir := time.Date(2023, 7, 13, 14, 49, 0, 0, time.UTC)

	return []*EmployeeDO{
		{
			Age:            &jackAge,
			Name:           "Jack",
			Salary:         3000,
			Bir:            bir,
			FriendNameList: []string{"a", "b", "c"},
			FiledDOS:       []*FiledDO{{Filed: "DO"}},
		},
		{
			Age:            &sariAge,
			Name:           "Sari",
			Salary:         4000,
			Bir:            bir,
			FriendNameList: []string{"e", "f", "g"},
			FiledDOS:       []*FiledDO{{Filed: "DO1"}},
		},
	}
}

func TestCopy(t *testing.T) {
	src := employees()[0]

	vo, err := Copy(src, &EmployeeVO{})
	require.NoError(t, err)
	require.NotNil(t, vo)

	assert.Equal(t, 18, *vo.Age)
	assert.Equal(t, "Jack", vo.Name)
	assert.InDelta(t, 3000.0, vo.Salary, 0)
	assert.True(t, src.Bir.Equal(vo.Bir))
	assert.Equal(t, []string{"a", "b", "c"}, vo.FriendNameList)
	assert.Nil(t, vo.FiledVOS, "differently named lists are not copied")

	// shallow
	src.FriendNameList[0] = "z"
	assert.Equal(t, "z", vo.FriendNameList[0])
	assert.Same(t, src.Age, vo.Age)
}

func TestCopy_Nil(t *testing.T) {
	vo, err := Copy[EmployeeDO](nil, &EmployeeVO{})
	require.NoError(t, err)
	assert.Nil(t, vo)

	vo, err = Copy[EmployeeDO, EmployeeVO](employees()[0], nil)
	require.NoError(t, err)
	assert.Nil(t, vo)
}

func TestCopy_KeepsUnmatchedTargetFields(t *testing.T) {
	vo := &EmployeeVO{FiledVOS: []*FiledVO{{Filed: "kept"}}}

	_, err := Copy(&EmployeeDO{Name: "Jack"}, vo)
	require.NoError(t, err)

	assert.Equal(t, "Jack", vo.Name)
	assert.Equal(t, "kept", vo.FiledVOS[0].Filed)
}

func TestCopyFunc(t *testing.T) {
	vo, err := CopyFunc(employees()[1], &EmployeeVO{}, func(f *EmployeeDO, t *EmployeeVO) {
		t.Name = f.Name + "!"
	})
	require.NoError(t, err)
	assert.Equal(t, "Sari!", vo.Name)
}

func TestTo(t *testing.T) {
	vo, err := To(employees()[0], func() *EmployeeVO { return &EmployeeVO{} })
	require.NoError(t, err)
	assert.Equal(t, "Jack", vo.Name)

	vo, err = To[EmployeeDO](nil, func() *EmployeeVO { return &EmployeeVO{} })
	require.NoError(t, err)
	assert.Nil(t, vo)

	_, err = To[EmployeeDO, EmployeeVO](employees()[0], nil)
	require.ErrorIs(t, err, ErrNilSupplier)

	_, err = To(employees()[0], func() *EmployeeVO { return nil })
	require.ErrorIs(t, err, ErrNilSupplier)
}

func TestList(t *testing.T) {
	vos, err := List[EmployeeDO, EmployeeVO](employees(), nil)
	require.NoError(t, err)
	require.Len(t, vos, 2)
	assert.Equal(t, "Jack", vos[0].Name)
	assert.Equal(t, "Sari", vos[1].Name)
	assert.NotSame(t, vos[0], vos[1])
}

func TestList_Callback(t *testing.T) {
	vos, err := List(employees(), func(f *EmployeeDO, t *EmployeeVO) {
		filed, err := List[FiledDO, FiledVO](f.FiledDOS, nil)
		if err == nil {
			t.FiledVOS = filed
		}
	})
	require.NoError(t, err)
	require.Len(t, vos, 2)
	require.Len(t, vos[1].FiledVOS, 1)
	assert.Equal(t, "DO1", vos[1].FiledVOS[0].Filed)
}

func TestList_EmptyAndNil(t *testing.T) {
	vos, err := List[EmployeeDO, EmployeeVO](nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, vos)
	assert.Empty(t, vos)

	vos, err = List[EmployeeDO, EmployeeVO]([]*EmployeeDO{nil, {Name: "Jack"}, nil}, nil)
	require.NoError(t, err)
	require.Len(t, vos, 1)
	assert.Equal(t, "Jack", vos[0].Name)
}

type rawScore struct {
	Name  string
	Score string
}

type score struct {
	Name  string
	Score int
}

func TestList_Error(t *testing.T) {
	lggr, logs := logger.TestObserved(t, zapcore.ErrorLevel)

	_, err := List[rawScore, score](
		[]*rawScore{{Name: "a", Score: "1"}, {Name: "b", Score: "ten"}},
		nil,
		WithCategories(primitive.CategoryTextNumber),
		WithLogger(lggr),
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "element 1")
	assert.ErrorIs(t, err, primitive.ErrSyntax)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "Score", fieldErr.Target)

	entries := logs.FilterMessage("convert error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, `{"Name":"b","Score":"ten"}`, entries[0].ContextMap()["f"])
	assert.EqualValues(t, 1, entries[0].ContextMap()["index"])
}

func TestMap(t *testing.T) {
	names := Map(employees(), func(e *EmployeeDO) string { return e.Name })
	assert.Equal(t, []string{"Jack", "Sari"}, names)

	withNil := append(employees(), nil)
	assert.Len(t, Map(withNil, func(e *EmployeeDO) string { return e.Name }), 2)

	assert.Empty(t, Map[*EmployeeDO, string](nil, nil))
	assert.NotNil(t, Map[*EmployeeDO, string](nil, nil))
}

type customerRow struct {
	Customer_ID string //nolint:revive
	Created     time.Time
	Secret      string
	Status      string
}

type customerView struct {
	CustomerID string
	Created    string
	Secret     string
	State      string
}

func TestCopier_Options(t *testing.T) {
	c, err := NewCopier(
		WithLooseNames(),
		WithIgnore("Secret"),
		WithCaster(func(t time.Time) string { return t.Format(time.DateOnly) }),
	)
	require.NoError(t, err)

	var view customerView
	require.NoError(t, c.CopyValue(customerRow{
		Customer_ID: "c-1",
		Created:     time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC),
		Secret:      "s3cr3t",
	}, &view))

	assert.Equal(t, "c-1", view.CustomerID)
	assert.Equal(t, "2024-02-29", view.Created)
	assert.Empty(t, view.Secret)
}

func TestCopier_Profiles(t *testing.T) {
	profiles, err := ParseProfiles([]byte(`
mappings:
  - source: convert.customerRow
    target: convert.customerView
    121:
      Status: State
    loose: true
    fields:
      - target: Secret
        default: "hidden"
`))
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.Len())

	c, err := NewCopier(WithProfiles(profiles))
	require.NoError(t, err)

	var view customerView
	require.NoError(t, c.CopyValue(&customerRow{Customer_ID: "c-2", Status: "active"}, &view))

	assert.Equal(t, "c-2", view.CustomerID)
	assert.Equal(t, "active", view.State)
	assert.Equal(t, "hidden", view.Secret)
}

func TestCopier_InvalidProfiles(t *testing.T) {
	_, err := ParseProfiles([]byte(`
mappings:
  - source: convert.customerRow
    121:
      Status: "not an ident"
`))
	require.Error(t, err)
}

func TestCopier_Strict(t *testing.T) {
	c, err := NewCopier(WithStrict())
	require.NoError(t, err)

	err = c.CopyValue(&customerRow{}, &customerView{})
	require.ErrorIs(t, err, plan.ErrUnmapped)
}

func TestCopier_InvalidCaster(t *testing.T) {
	_, err := NewCopier(WithCaster("not a function"))
	require.Error(t, err)
}

func TestCopier_InvalidTarget(t *testing.T) {
	c, err := NewCopier()
	require.NoError(t, err)

	require.ErrorIs(t, c.CopyValue(&customerRow{}, customerView{}), ErrInvalidTarget)
	require.ErrorIs(t, c.CopyValue(&customerRow{}, (*customerView)(nil)), ErrInvalidTarget)
	require.NoError(t, c.CopyValue((*customerRow)(nil), &customerView{}))
	require.NoError(t, c.CopyValue(nil, &customerView{}))
}

func TestCopier_PlanDebugLog(t *testing.T) {
	lggr, logs := logger.TestObserved(t, zapcore.DebugLevel)

	c, err := NewCopier(WithLogger(lggr))
	require.NoError(t, err)
	require.NoError(t, c.CopyValue(&customerRow{}, &customerView{}))
	require.NoError(t, c.CopyValue(&customerRow{}, &customerView{}))

	resolved := logs.FilterMessage("copy plan resolved").All()
	require.Len(t, resolved, 1)
	fields := resolved[0].ContextMap()
	assert.Equal(t, "convert.customerRow->convert.customerView", fields["pair"])
	dump, ok := fields["plan"].(string)
	require.True(t, ok)
	assert.Contains(t, dump, `"convert.customerRow->convert.customerView"`)
	assert.Contains(t, dump, "Strategy:")
}

func TestCopier_UnmappedWarnings(t *testing.T) {
	lggr, logs := logger.TestObserved(t, zapcore.WarnLevel)

	c, err := NewCopier(WithLogger(lggr))
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, c.CopyValue(&customerRow{}, &customerView{}))
	}

	// CustomerID and State have no source; logged once per type pair
	unmapped := logs.FilterField(zapcore.Field{Key: "code", Type: zapcore.StringType, String: "unmapped"}).All()
	assert.Len(t, unmapped, 2)
	assert.Equal(t, "convert", unmapped[0].LoggerName)
}

func TestCopier_Explain(t *testing.T) {
	c, err := NewCopier(WithCaster(strconv.Itoa))
	require.NoError(t, err)

	text, err := c.Explain(&score{}, rawScore{})
	require.NoError(t, err)
	assert.Contains(t, text, "convert.score->convert.rawScore")
	assert.Contains(t, text, "Name <- Name (exact, direct_assign)")
	assert.Contains(t, text, "Score <- Score (exact, transform)")
}

func TestCopier_Concurrent(t *testing.T) {
	c, err := NewCopier()
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var vo EmployeeVO
			errs <- c.CopyValue(employees()[0], &vo)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

func TestFieldError(t *testing.T) {
	err := error(&FieldError{Pair: "a->b", Source: "X", Target: "Y", Err: primitive.ErrOutOfRange})
	assert.True(t, errors.Is(err, primitive.ErrOutOfRange))
}
