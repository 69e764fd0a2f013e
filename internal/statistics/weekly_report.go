package statistics

import (
	"math"
	"time"

	"github.com/at-ishikawa/teacherlee/internal/learning"
)

const (
	// MinutesPerEvent is the study time credited to every recorded event
	MinutesPerEvent = 8

	VocabGoal           = 100
	PatternGoal         = 40
	LowProgressPercent  = 70
	RecentPatternsCount = 5

	reportDays = 7
)

// GoalSubject is a subject the weekly goals are tracked for.
type GoalSubject struct {
	ID    string
	Title string
	Icon  string
}

// DefaultGoalSubjects are the language subjects shown on the weekly report.
var DefaultGoalSubjects = []GoalSubject{
	{ID: "korean", Title: "Korean", Icon: "🇰🇷"},
	{ID: "english", Title: "English", Icon: "🇺🇸"},
	{ID: "japanese", Title: "Japanese", Icon: "🇯🇵"},
	{ID: "chinese", Title: "Chinese", Icon: "🇨🇳"},
}

// DailyActivity holds one local calendar day of the report window
type DailyActivity struct {
	Date           time.Time
	Minutes        int
	Conversations  int
	PatternCount   int
	PatternAverage int
}

type SubjectGoal struct {
	Subject       GoalSubject
	VocabTarget   int
	VocabDone     int
	PatternTarget int
	// PatternDone counts every pattern of the week; pattern scores are not tied to a subject
	PatternDone int
}

// VocabPercent is the vocabulary progress, capped at 100.
func (g SubjectGoal) VocabPercent() int {
	return cappedPercent(g.VocabDone, g.VocabTarget)
}

// PatternPercent is the pattern progress, capped at 100.
func (g SubjectGoal) PatternPercent() int {
	return cappedPercent(g.PatternDone, g.PatternTarget)
}

// LowProgress reports whether either goal is below LowProgressPercent.
func (g SubjectGoal) LowProgress() bool {
	return g.VocabDone*100 < g.VocabTarget*LowProgressPercent ||
		g.PatternDone*100 < g.PatternTarget*LowProgressPercent
}

// WeeklyReport summarizes the seven days up to GeneratedAt.
type WeeklyReport struct {
	GeneratedAt time.Time
	WeekStart   time.Time

	EventCount int
	ChatCount  int
	CodeCount  int
	ExamCount  int

	NewWords          int
	NewWordsBySubject map[string]int

	PatternCount        int
	AveragePatternScore int

	Days                []DailyActivity
	Goals               []SubjectGoal
	LowProgressSubjects []SubjectGoal
	RecentPatterns      []learning.PatternScore
}

// StudyMinutes is the study time credited for the week.
func (r WeeklyReport) StudyMinutes() int {
	return r.EventCount * MinutesPerEvent
}

// StudyHours is StudyMinutes in hours.
func (r WeeklyReport) StudyHours() float64 {
	return float64(r.StudyMinutes()) / 60
}

// CalculateWeeklyReport builds the report for the 7 days before now. Daily buckets start
// at local midnight in now's location, oldest first.
func CalculateWeeklyReport(state learning.LearningState, now time.Time) WeeklyReport {
	weekStart := now.Add(-reportDays * 24 * time.Hour)
	inWeek := func(t time.Time) bool {
		return !t.Before(weekStart)
	}

	report := WeeklyReport{
		GeneratedAt:       now,
		WeekStart:         weekStart,
		NewWordsBySubject: make(map[string]int),
	}

	for _, e := range state.Events {
		if !inWeek(e.At) {
			continue
		}
		report.EventCount++
		switch e.Kind {
		case learning.EventKindChat:
			report.ChatCount++
		case learning.EventKindCode:
			report.CodeCount++
		case learning.EventKindExam:
			report.ExamCount++
		}
	}

	for _, c := range state.VocabCards {
		if !inWeek(c.AddedAt) {
			continue
		}
		report.NewWords++
		report.NewWordsBySubject[c.Subject]++
	}

	var weekScores []int
	for _, p := range state.PatternScores {
		if inWeek(p.At) {
			weekScores = append(weekScores, p.Score)
		}
	}
	report.PatternCount = len(weekScores)
	report.AveragePatternScore = roundedAverage(weekScores)

	report.Days = dailyActivities(state, now)

	for _, subject := range DefaultGoalSubjects {
		goal := SubjectGoal{
			Subject:       subject,
			VocabTarget:   VocabGoal,
			VocabDone:     report.NewWordsBySubject[subject.ID],
			PatternTarget: PatternGoal,
			PatternDone:   report.PatternCount,
		}
		report.Goals = append(report.Goals, goal)
		if goal.LowProgress() {
			report.LowProgressSubjects = append(report.LowProgressSubjects, goal)
		}
	}

	report.RecentPatterns = recentPatterns(state.PatternScores, RecentPatternsCount)
	return report
}

func dailyActivities(state learning.LearningState, now time.Time) []DailyActivity {
	days := make([]DailyActivity, 0, reportDays)
	for i := reportDays - 1; i >= 0; i-- {
		start := startOfDay(now.AddDate(0, 0, -i))
		end := start.AddDate(0, 0, 1)
		inDay := func(t time.Time) bool {
			return !t.Before(start) && t.Before(end)
		}

		day := DailyActivity{Date: start}
		for _, e := range state.Events {
			if !inDay(e.At) {
				continue
			}
			day.Minutes += MinutesPerEvent
			if e.Kind == learning.EventKindChat {
				day.Conversations++
			}
		}
		var scores []int
		for _, p := range state.PatternScores {
			if inDay(p.At) {
				scores = append(scores, p.Score)
			}
		}
		day.PatternCount = len(scores)
		day.PatternAverage = roundedAverage(scores)
		days = append(days, day)
	}
	return days
}

// recentPatterns returns the last n scores, newest first. Scores are stored oldest first.
func recentPatterns(scores []learning.PatternScore, n int) []learning.PatternScore {
	start := max(0, len(scores)-n)
	recent := make([]learning.PatternScore, 0, len(scores)-start)
	for i := len(scores) - 1; i >= start; i-- {
		recent = append(recent, scores[i])
	}
	return recent
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func roundedAverage(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return int(math.Round(float64(sum) / float64(len(values))))
}

func cappedPercent(done, target int) int {
	if target <= 0 {
		return 100
	}
	return min(100, int(math.Round(float64(done)*100/float64(target))))
}
