package app

import (
	"context"
	"sort"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/nambiararyan24/portfolio/domain/core"
	"github.com/nambiararyan24/portfolio/internal/errors"
	"github.com/nambiararyan24/portfolio/models"
	"github.com/nambiararyan24/portfolio/ports"
)

const recentLeadCount = 5

// scoreDividers bound the histogram bins. Scores are clamped to 0..100,
// so the last bin is [80, 101) and covers a perfect score.
var scoreDividers = []float64{0, 20, 40, 60, 80, 101}

// DashboardService computes the back office overview
type DashboardService struct {
	services ports.ServiceRepository
	projects ports.ProjectRepository
	reviews  ports.ReviewRepository
	leads    ports.LeadRepository
	clock    core.Clock
}

func NewDashboardService(repos Repositories, clock core.Clock) *DashboardService {
	if clock == nil {
		clock = core.SystemClock{}
	}
	return &DashboardService{
		services: repos.Services,
		projects: repos.Projects,
		reviews:  repos.Reviews,
		leads:    repos.Leads,
		clock:    clock,
	}
}

// Stats loads every table concurrently and derives the overview
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var (
		services []models.Service
		projects []models.Project
		reviews  []models.Review
		leads    []models.Lead
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		services, err = s.services.List(gctx)
		return errors.Wrap(err, "failed to count services")
	})
	g.Go(func() (err error) {
		projects, err = s.projects.List(gctx)
		return errors.Wrap(err, "failed to count projects")
	})
	g.Go(func() (err error) {
		reviews, err = s.reviews.List(gctx, false)
		return errors.Wrap(err, "failed to count reviews")
	})
	g.Go(func() (err error) {
		leads, err = s.leads.List(gctx, models.LeadFilterAll)
		return errors.Wrap(err, "failed to count leads")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &models.DashboardStats{
		Services:       len(services),
		Projects:       len(projects),
		Reviews:        len(reviews),
		Leads:          len(leads),
		LeadsByType:    []models.TypeCount{},
		RecentLeads:    []models.Lead{},
		ScoreHistogram: []models.HistogramBin{},
	}
	for _, p := range projects {
		if p.IsLive() {
			out.LiveProjects++
		}
	}
	out.AverageRating = averageRating(reviews)
	s.summariseLeads(out, leads)
	return out, nil
}

func (s *DashboardService) summariseLeads(out *models.DashboardStats, leads []models.Lead) {
	now := s.clock.Now()
	byType := make(map[string]int)
	scores := make([]float64, 0, len(leads))
	for _, l := range leads {
		if !l.Read {
			out.UnreadLeads++
		}
		if core.SameMonth(now, l.CreatedAt) {
			out.LeadsThisMonth++
		}
		byType[l.ProjectType]++
		if l.LeadScore != nil {
			scores = append(scores, float64(*l.LeadScore))
		}
	}
	out.LeadsByType = LeadsByType(byType)

	recent := make([]models.Lead, len(leads))
	copy(recent, leads)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].CreatedAt.After(recent[j].CreatedAt) })
	if len(recent) > recentLeadCount {
		recent = recent[:recentLeadCount]
	}
	out.RecentLeads = recent

	out.LeadScores = SummariseScores(scores)
	out.ScoreHistogram = ScoreHistogram(scores)
}

// LeadsByType orders counts descending, ties by name
func LeadsByType(counts map[string]int) []models.TypeCount {
	out := make([]models.TypeCount, 0, len(counts))
	for t, n := range counts {
		out = append(out, models.TypeCount{ProjectType: t, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].ProjectType < out[j].ProjectType
	})
	return out
}

// SummariseScores returns the zero summary for no scores
func SummariseScores(scores []float64) models.ScoreSummary {
	if len(scores) == 0 {
		return models.ScoreSummary{}
	}
	data := stats.Float64Data(scores)
	mean, _ := stats.Mean(data)
	median, _ := stats.Median(data)
	p90, _ := stats.Percentile(data, 90)
	return models.ScoreSummary{
		Count:  len(scores),
		Mean:   round2(mean),
		Median: median,
		P90:    p90,
	}
}

// ScoreHistogram buckets lead scores into fixed bins of width 20
func ScoreHistogram(scores []float64) []models.HistogramBin {
	bins := make([]models.HistogramBin, len(scoreDividers)-1)
	for i := range bins {
		bins[i] = models.HistogramBin{Low: scoreDividers[i], High: scoreDividers[i+1]}
	}
	bins[len(bins)-1].High = 100

	inRange := make([]float64, 0, len(scores))
	for _, v := range scores {
		if v >= scoreDividers[0] && v < scoreDividers[len(scoreDividers)-1] {
			inRange = append(inRange, v)
		}
	}
	if len(inRange) == 0 {
		return bins
	}
	sort.Float64s(inRange)
	counts := stat.Histogram(nil, scoreDividers, inRange, nil)
	for i, c := range counts {
		bins[i].Count = int(c)
	}
	return bins
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	ratings := make([]float64, len(reviews))
	for i, r := range reviews {
		ratings[i] = float64(r.Rating)
	}
	return round2(stat.Mean(ratings, nil))
}

func round2(v float64) float64 {
	r, _ := stats.Round(v, 2)
	return r
}
