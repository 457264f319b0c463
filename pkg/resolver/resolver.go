// Package resolver 把当前时刻与当天有序的日程项做比较，得出当前处于哪个日程窗口
//
// 窗口为半开区间 [items[i].Time, items[i+1].Time)，下界包含、上界不包含。
// 当前时刻恰好等于最后一项的时刻时视为最后一项进行中，只有严格晚于最后一项才算结束。
package resolver

import (
	"github.com/Kevin-Rudy/timeblock/pkg/core"
)

// Resolve 计算now相对于items的状态
// items必须非空且按时间非递减排列，此处不做校验；乱序输入不会panic，但结果无意义
func Resolve(now core.WallClock, items []core.ScheduleItem) core.Status {
	if len(items) == 0 {
		// 控制器保证不会以空序列调用
		return core.Status{Kind: core.StatusNoSchedule}
	}

	nowMin := now.Minutes()
	last := len(items) - 1

	if nowMin < items[0].Time.Minutes() {
		return core.Status{Kind: core.StatusBefore}
	}
	if nowMin > items[last].Time.Minutes() {
		return core.Status{Kind: core.StatusAfter}
	}

	for i := 0; i < last; i++ {
		start := items[i].Time.Minutes()
		end := items[i+1].Time.Minutes()
		if nowMin >= start && nowMin < end {
			return during(items, i)
		}
	}

	// 只有nowMin等于最后一项时刻时才会走到这里
	return during(items, last)
}

// during 构造 StatusDuring，前后项不存在时为nil
func during(items []core.ScheduleItem, index int) core.Status {
	status := core.Status{
		Kind:    core.StatusDuring,
		Index:   index,
		Current: &items[index],
	}
	if index > 0 {
		status.Previous = &items[index-1]
	}
	if index < len(items)-1 {
		status.Next = &items[index+1]
	}
	return status
}
