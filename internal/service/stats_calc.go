package service

import (
	"quit_smoking_backend/internal/model"
	"time"
)

// SavingsResult 节省统计。PriceDataMissing 为 true 表示用户未填写烟价，
// 金额为 0 是"不知道"而不是"没省到"，调用方据此区分。
type SavingsResult struct {
	CigarettesReduced int     `json:"cigarettesReduced"`
	MoneySaved        float64 `json:"moneySaved"`
	HoursSaved        int     `json:"hoursSaved"`
	MinutesSaved      int     `json:"minutesSaved"`
	PriceDataMissing  bool    `json:"priceDataMissing"`
}

// ComputeCurrentStreak 从最近一次打卡日期向前回溯，统计连续的
// 无烟打卡天数。日期断档或吸烟量大于 0 都会终止回溯。
// entries 必须按日期升序。
func ComputeCurrentStreak(entries []model.ProgressEntry) int {
	if len(entries) == 0 {
		return 0
	}

	i := len(entries) - 1
	if entries[i].CigarettesSmoked > 0 {
		return 0
	}

	streak := 1
	for i > 0 {
		prev := entries[i-1]
		if prev.CigarettesSmoked > 0 {
			break
		}
		if !model.DateOf(prev.LogDate).AddDate(0, 0, 1).Equal(model.DateOf(entries[i].LogDate)) {
			// 缺失的日期和吸烟日一样打断连续
			break
		}
		streak++
		i--
	}
	return streak
}

// ComputePeakStreak 正向扫描 [start, evalDate] 的每一个自然日，
// 无烟打卡日累加计数，吸烟日或缺失日清零，返回出现过的最大值。
func ComputePeakStreak(entries []model.ProgressEntry, start, evalDate time.Time) int {
	smoked := make(map[time.Time]int, len(entries))
	for _, e := range entries {
		smoked[model.DateOf(e.LogDate)] = e.CigarettesSmoked
	}

	peak, run := 0, 0
	from := model.DateOf(start)
	to := model.DateOf(evalDate)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		count, logged := smoked[d]
		if logged && count == 0 {
			run++
			if run > peak {
				peak = run
			}
		} else {
			run = 0
		}
	}
	return peak
}

// CountSmokeFreeDays 统计无烟打卡的总天数
func CountSmokeFreeDays(entries []model.ProgressEntry) int {
	days := 0
	for _, e := range entries {
		if e.CigarettesSmoked == 0 {
			days++
		}
	}
	return days
}

// ComputeSavings 按基准日均吸烟量计算少吸的烟、省下的钱和时间。
// 每个打卡日贡献 max(0, baseline-smoked)，超量吸烟的日子不产生负贡献。
func ComputeSavings(baseline int, entries []model.ProgressEntry, pricePerCigarette *float64, minutesPerCigarette int) SavingsResult {
	reduced := 0
	for _, e := range entries {
		if e.CigarettesSmoked < baseline {
			reduced += baseline - e.CigarettesSmoked
		}
	}

	result := SavingsResult{CigarettesReduced: reduced}

	if pricePerCigarette != nil {
		result.MoneySaved = float64(reduced) * (*pricePerCigarette)
	} else {
		result.PriceDataMissing = true
	}

	totalMinutes := reduced * minutesPerCigarette
	result.HoursSaved = totalMinutes / 60
	result.MinutesSaved = totalMinutes % 60

	return result
}
