// Package htmlcatalog is the reference scraper for institutions publishing
// their catalog as a static HTML page per session. It exists to exercise the
// full pipeline end to end; production networks get their own packages
// implementing the same contract.
package htmlcatalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mberk/coursedex/internal/app/models"
	"github.com/mberk/coursedex/internal/app/repositories"
	"github.com/mberk/coursedex/internal/scraper"
)

// Options configures the catalog scraper for one network.
type Options struct {
	// BaseURL is the catalog root; the session slug is appended per run.
	BaseURL     string
	Client      *resty.Client
	Repos       *repositories.Repositories
	Network     *models.Network
	Institution *models.Institution
	Logger      zerolog.Logger
}

// NewFactory returns a factory producing catalog scrapers bound to the
// given network.
func NewFactory(opts Options) scraper.Factory {
	return func(networkSlug string, session *models.Session) scraper.Scraper {
		return &Catalog{
			opts:    opts,
			session: session,
		}
	}
}

// Catalog scrapes one session's catalog page into canonical rows.
type Catalog struct {
	opts    Options
	session *models.Session

	// reference ids touched this run, linked to the session at the end
	classificationIDs []int64
	collegeIDs        []int64
	levelIDs          []int64
}

// Run fetches and parses the session's catalog page and upserts every course
// and section it lists. Reference rows (colleges, levels, classifications)
// are created on first sight and linked to the session.
func (c *Catalog) Run(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", c.opts.BaseURL, c.session.Slug)
	resp, err := c.opts.Client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("fetching catalog page: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("fetching catalog page: unexpected status %d", resp.StatusCode())
	}

	courses, err := parseCatalog(bytes.NewReader(resp.Body()))
	if err != nil {
		return err
	}

	c.opts.Logger.Info().
		Str("session", c.session.Slug).
		Int("courses", len(courses)).
		Msg("Parsed catalog page")

	for _, parsed := range courses {
		if err := c.upsertCourse(ctx, parsed); err != nil {
			return fmt.Errorf("course %s: %w", parsed.Number, err)
		}
	}

	return c.opts.Repos.SessionRepository.Associate(ctx,
		c.session.ID, c.classificationIDs, c.collegeIDs, c.levelIDs)
}

func (c *Catalog) upsertCourse(ctx context.Context, parsed parsedCourse) error {
	networkID := c.opts.Network.ID
	institutionID := c.opts.Institution.ID

	var collegeID *int64
	if parsed.CollegeName != "" {
		college := &models.College{
			NetworkID:     &networkID,
			InstitutionID: &institutionID,
			Name:          parsed.CollegeName,
			ShortName:     parsed.CollegeShort,
		}
		if err := c.opts.Repos.ReferenceRepository.GetOrCreateCollege(ctx, college); err != nil {
			return err
		}
		collegeID = &college.ID
		c.collegeIDs = append(c.collegeIDs, college.ID)
	}

	var levelID *int64
	if parsed.LevelName != "" {
		level := &models.Level{
			NetworkID:     &networkID,
			InstitutionID: institutionID,
			Name:          parsed.LevelName,
		}
		if err := c.opts.Repos.ReferenceRepository.GetOrCreateLevel(ctx, level); err != nil {
			return err
		}
		levelID = &level.ID
		c.levelIDs = append(c.levelIDs, level.ID)
	}

	var classificationID *int64
	if parsed.SubjectCode != "" {
		classification := &models.Classification{
			NetworkID:     networkID,
			InstitutionID: institutionID,
			CollegeID:     collegeID,
			Code:          parsed.SubjectCode,
			Name:          parsed.SubjectName,
		}
		if err := c.opts.Repos.ReferenceRepository.GetOrCreateClassification(ctx, classification); err != nil {
			return err
		}
		classificationID = &classification.ID
		c.classificationIDs = append(c.classificationIDs, classification.ID)
	}

	course, err := c.opts.Repos.CourseRepository.GetByNumber(ctx, c.session.ID, classificationID, parsed.Number)
	if errors.Is(err, repositories.ErrCourseNotFound) {
		course = &models.Course{SessionID: c.session.ID}
	} else if err != nil {
		return err
	}

	course.NetworkID = &networkID
	course.InstitutionID = &institutionID
	course.CollegeID = collegeID
	course.ClassificationID = classificationID
	course.LevelID = levelID
	course.Number = parsed.Number
	course.Name = parsed.Name
	course.Description = parsed.Description
	course.Grading = parsed.Grading

	if err := c.opts.Repos.CourseRepository.Save(ctx, course); err != nil {
		return err
	}

	for _, ps := range parsed.Sections {
		if err := c.upsertSection(ctx, course, ps); err != nil {
			return fmt.Errorf("section %s: %w", ps.Number, err)
		}
	}
	return nil
}

func (c *Catalog) upsertSection(ctx context.Context, course *models.Course, parsed parsedSection) error {
	networkID := c.opts.Network.ID
	institutionID := c.opts.Institution.ID

	section, err := c.opts.Repos.SectionRepository.GetByNumber(ctx, course.ID, parsed.Number)
	if errors.Is(err, repositories.ErrSectionNotFound) {
		section = &models.Section{CourseID: course.ID}
	} else if err != nil {
		return err
	}

	section.NetworkID = &networkID
	section.InstitutionID = &institutionID
	section.Status = parsed.Status
	section.Number = parsed.Number
	section.Name = course.Name
	section.Notes = parsed.Notes
	section.Prof = parsed.Prof
	section.Units = parsed.Units
	section.Component = parsed.Component
	section.ReferenceCode = parsed.ReferenceCode

	section.SeatsCapacity = parsed.SeatsCapacity
	section.SeatsTaken = parsed.SeatsTaken
	section.SeatsAvailable = remaining(parsed.SeatsCapacity, parsed.SeatsTaken)
	section.WaitlistCapacity = parsed.WaitlistCapacity
	section.WaitlistTaken = parsed.WaitlistTaken
	section.WaitlistAvailable = remaining(parsed.WaitlistCapacity, parsed.WaitlistTaken)

	if err := c.opts.Repos.SectionRepository.Save(ctx, section); err != nil {
		return err
	}

	meetings := make([]*models.Meeting, 0, len(parsed.Meetings))
	for _, pm := range parsed.Meetings {
		meetings = append(meetings, &models.Meeting{
			Day:      pm.Day,
			Start:    pm.Start,
			End:      pm.End,
			Location: pm.Location,
			Room:     pm.Room,
		})
	}
	return c.opts.Repos.SectionRepository.ReplaceMeetings(ctx, section.ID, meetings)
}

// remaining derives the free count when both inputs are reported.
func remaining(capacity, taken *int) *int {
	if capacity == nil || taken == nil {
		return nil
	}
	free := *capacity - *taken
	if free < 0 {
		free = 0
	}
	return &free
}
