package profile

import (
	"sort"
	"time"

	"github.com/hitoshi/gitgazer/internal/model"
)

const (
	// topLanguagesLimit は集計結果に含める上位言語の最大数。
	topLanguagesLimit = 5
	// activityWindowDays は直近アクティビティの集計対象期間（日数）。
	activityWindowDays = 30
	// dateLayout はサマリー内の日付表記。
	dateLayout = "2006-01-02"
)

// Aggregate はフェッチ済みのプロフィール情報からProfileSummaryを生成する。
// 入力を変更しない純粋関数であり、鮮度判定の基準時刻nowを
// 明示的なパラメータとして受け取る（壁時計は読まない）。
func Aggregate(info model.BasicInfo, repos []model.Repository, events []model.Event, now time.Time) model.ProfileSummary {
	totalStars := 0
	mostStarred := ""
	maxStars := -1

	// 言語ごとのバイト数合計。初出順をタイブレークに使うため出現順も記録する。
	langBytes := make(map[string]int)
	var langOrder []string

	// 言語ごとの「その言語を含むリポジトリ数」。バイト数とは独立に、
	// 1リポジトリにつき言語ごと最大1カウント。
	repoLangCounts := make(map[string]int)

	for _, repo := range repos {
		totalStars += repo.StarCount

		// 最多スターのリポジトリを追跡する（同点は先勝ち）
		if repo.StarCount > maxStars {
			maxStars = repo.StarCount
			mostStarred = repo.Name
		}

		for lang, bytes := range repo.LanguageBytes {
			if _, seen := langBytes[lang]; !seen {
				langOrder = append(langOrder, lang)
			}
			langBytes[lang] += bytes
			repoLangCounts[lang]++
		}
	}

	avgStars := 0.0
	if info.RepoCount > 0 {
		avgStars = float64(totalStars) / float64(info.RepoCount)
	}

	activityDates, activityCounts := activityHistogram(events, now)

	return model.ProfileSummary{
		Username:        info.Username,
		RepoCount:       info.RepoCount,
		Followers:       info.Followers,
		Following:       info.Following,
		CreatedAt:       info.CreatedAt.Format(dateLayout),
		LastActive:      info.LastActive.Format(dateLayout),
		TotalStars:      totalStars,
		AvgStarsPerRepo: avgStars,
		MostStarredRepo: mostStarred,
		TopLanguages:    topLanguages(langBytes, langOrder),
		RepoLanguages:   toLanguageCounts(repoLangCounts),
		ActivityDates:   activityDates,
		ActivityCounts:  activityCounts,
	}
}

// topLanguages はバイト数合計の降順で上位5言語を返す。
// 同点は初出順で並べる。
func topLanguages(langBytes map[string]int, order []string) []string {
	// orderは初出順なので、安定ソートで同点時の初出順が保たれる
	langs := make([]string, len(order))
	copy(langs, order)
	sort.SliceStable(langs, func(i, j int) bool {
		return langBytes[langs[i]] > langBytes[langs[j]]
	})

	if len(langs) > topLanguagesLimit {
		langs = langs[:topLanguagesLimit]
	}
	return langs
}

// toLanguageCounts はリポジトリ数カウンタをLanguageCountのスライスに変換する。
// 集合としては順不同だが、出力を比較しやすいよう言語名で整列する。
func toLanguageCounts(counts map[string]int) []model.LanguageCount {
	result := make([]model.LanguageCount, 0, len(counts))
	for lang, count := range counts {
		result = append(result, model.LanguageCount{Language: lang, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Language < result[j].Language
	})
	return result
}

// activityHistogram は直近30日ウィンドウ内のイベントをUTCの暦日単位で
// グループ化し、昇順の日付列と位置対応するカウント列を返す。
func activityHistogram(events []model.Event, now time.Time) ([]string, []int) {
	windowStart := now.AddDate(0, 0, -activityWindowDays)

	countsByDate := make(map[string]int)
	for _, ev := range events {
		if ev.Timestamp.Before(windowStart) || ev.Timestamp.After(now) {
			continue
		}
		date := ev.Timestamp.UTC().Format(dateLayout)
		countsByDate[date]++
	}

	dates := make([]string, 0, len(countsByDate))
	for d := range countsByDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	counts := make([]int, len(dates))
	for i, d := range dates {
		counts[i] = countsByDate[d]
	}
	return dates, counts
}
