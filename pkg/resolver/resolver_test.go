package resolver

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

func item(clock, title string) core.ScheduleItem {
	return core.ScheduleItem{Time: core.MustParseWallClock(clock), Title: title}
}

func at(clock string) core.WallClock {
	return core.MustParseWallClock(clock)
}

func TestResolveSingleItem(t *testing.T) {
	items := []core.ScheduleItem{item("09:00", "Open")}

	assert.Equal(t, core.StatusBefore, Resolve(at("08:59"), items).Kind)
	assert.Equal(t, core.StatusAfter, Resolve(at("09:01"), items).Kind)

	st := Resolve(at("09:00"), items)
	require.Equal(t, core.StatusDuring, st.Kind)
	assert.Equal(t, 0, st.Index)
	assert.Nil(t, st.Previous)
	assert.Nil(t, st.Next)
	require.NotNil(t, st.Current)
	assert.Equal(t, "Open", st.Current.Title)
}

func TestResolveMiddleWindow(t *testing.T) {
	items := []core.ScheduleItem{
		item("10:00", "A"),
		item("11:00", "B"),
		item("12:00", "C"),
	}

	st := Resolve(at("11:30"), items)
	require.Equal(t, core.StatusDuring, st.Kind)
	assert.Equal(t, 1, st.Index)
	require.NotNil(t, st.Previous)
	require.NotNil(t, st.Next)
	assert.Equal(t, "A", st.Previous.Title)
	assert.Equal(t, "B", st.Current.Title)
	assert.Equal(t, "C", st.Next.Title)

	// 返回的是对输入切片的引用而不是副本
	assert.Same(t, &items[1], st.Current)
}

func TestResolveBoundaries(t *testing.T) {
	items := []core.ScheduleItem{
		item("10:00", "A"),
		item("11:00", "B"),
		item("12:00", "C"),
	}

	cases := []struct {
		now   string
		kind  core.StatusKind
		index int
	}{
		{"09:59", core.StatusBefore, 0},
		{"10:00", core.StatusDuring, 0},
		{"10:59", core.StatusDuring, 0},
		{"11:00", core.StatusDuring, 1},
		{"11:59", core.StatusDuring, 1},
		{"12:00", core.StatusDuring, 2},
		{"12:01", core.StatusAfter, 0},
		{"00:00", core.StatusBefore, 0},
		{"23:59", core.StatusAfter, 0},
	}

	for _, c := range cases {
		t.Run(c.now, func(t *testing.T) {
			st := Resolve(at(c.now), items)
			assert.Equal(t, c.kind, st.Kind)
			if c.kind == core.StatusDuring {
				assert.Equal(t, c.index, st.Index)
			} else {
				assert.Nil(t, st.Current)
				assert.Nil(t, st.Previous)
				assert.Nil(t, st.Next)
			}
		})
	}
}

func TestResolveLastItemIsDuringNotAfter(t *testing.T) {
	items := []core.ScheduleItem{
		item("10:00", "A"),
		item("12:00", "C"),
	}

	st := Resolve(at("12:00"), items)
	require.Equal(t, core.StatusDuring, st.Kind)
	assert.Equal(t, 1, st.Index)
	assert.Equal(t, "A", st.Previous.Title)
	assert.Nil(t, st.Next)
}

func TestResolveDuplicateTimes(t *testing.T) {
	items := []core.ScheduleItem{
		item("10:00", "A1"),
		item("10:00", "A2"),
		item("11:00", "B"),
		item("11:00", "B2"),
	}

	// [A1,A2) 为空窗口，第一个包含10:00的窗口是A2
	st := Resolve(at("10:00"), items)
	assert.Equal(t, 1, st.Index)

	st = Resolve(at("11:00"), items)
	require.Equal(t, core.StatusDuring, st.Kind)
	assert.Equal(t, 3, st.Index)
}

func TestResolveEmpty(t *testing.T) {
	assert.Equal(t, core.StatusNoSchedule, Resolve(at("10:00"), nil).Kind)
}

func TestResolveUnsortedDoesNotPanic(t *testing.T) {
	items := []core.ScheduleItem{
		item("12:00", "C"),
		item("10:00", "A"),
		item("11:00", "B"),
	}
	for m := 0; m < 24*60; m++ {
		now := core.WallClock{Hour: m / 60, Minute: m % 60}
		assert.NotPanics(t, func() { Resolve(now, items) })
	}
}

// 对随机生成的有序序列遍历一天中的每一分钟，与参考实现比较
func TestResolveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(20250520))

	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(8)
		items := make([]core.ScheduleItem, n)
		for i := range items {
			m := rng.Intn(24 * 60)
			items[i] = core.ScheduleItem{
				Time:  core.WallClock{Hour: m / 60, Minute: m % 60},
				Title: fmt.Sprintf("item-%d", i),
			}
		}
		core.SortItems(items)

		first := items[0].Time.Minutes()
		last := items[n-1].Time.Minutes()

		for m := 0; m < 24*60; m++ {
			now := core.WallClock{Hour: m / 60, Minute: m % 60}
			st := Resolve(now, items)

			switch {
			case m < first:
				require.Equal(t, core.StatusBefore, st.Kind, "round %d now %s", round, now)
			case m > last:
				require.Equal(t, core.StatusAfter, st.Kind, "round %d now %s", round, now)
			default:
				// 期望的窗口是最后一个时刻不晚于now的项
				want := 0
				for i := range items {
					if items[i].Time.Minutes() <= m {
						want = i
					}
				}
				require.Equal(t, core.StatusDuring, st.Kind, "round %d now %s", round, now)
				require.Equal(t, want, st.Index, "round %d now %s", round, now)
				require.Same(t, &items[want], st.Current)
				if want > 0 {
					require.Same(t, &items[want-1], st.Previous)
				} else {
					require.Nil(t, st.Previous)
				}
				if want < n-1 {
					require.Same(t, &items[want+1], st.Next)
				} else {
					require.Nil(t, st.Next)
				}
			}
		}
	}
}
