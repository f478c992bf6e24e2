package course

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/lms"
)

// Service fetches and normalizes LMS course data. List operations are
// fail-open (empty slice on failure, logged); only Contents surfaces an
// error since the course viewer cannot render without it.
type Service struct {
	lms      lms.Caller
	logger   core.Logger
	defaults *Defaults
}

func NewService(gateway lms.Caller, logger core.Logger, defaults *Defaults) *Service {
	return &Service{lms: gateway, logger: logger, defaults: defaults}
}

// raw payload shapes

type rawCourse struct {
	ID            int          `json:"id"`
	FullName      string       `json:"fullname"`
	ShortName     string       `json:"shortname"`
	Summary       string       `json:"summary"`
	CategoryID    int          `json:"categoryid"`
	Category      int          `json:"category"` // core_enrol_get_users_courses uses this key
	CourseImage   string       `json:"courseimage"`
	Progress      null.Float64 `json:"progress"`
	StartDate     int64        `json:"startdate"`
	EndDate       int64        `json:"enddate"`
	EnrolledCount int          `json:"enrolledusercount"`
	OverviewFiles []rawFile    `json:"overviewfiles"`
	DisplayName   string       `json:"displayname"`
	TimeCreated   int64        `json:"timecreated"`
}

type rawFile struct {
	FileName string `json:"filename"`
	FileURL  string `json:"fileurl"`
}

func (svc *Service) toCourse(r rawCourse) Course {
	c := Course{
		ID:         r.ID,
		FullName:   r.FullName,
		ShortName:  r.ShortName,
		Summary:    r.Summary,
		CategoryID: r.CategoryID,
		Progress:   svc.defaults.Progress(),
		Rating:     svc.defaults.Rating(),
		Type:       inferType(r.FullName, r.ShortName, r.Summary),
		Level:      inferLevel(r.FullName, r.Summary),
	}
	if c.CategoryID == 0 {
		c.CategoryID = r.Category
	}
	if r.CourseImage != "" {
		c.CourseImage = r.CourseImage
	} else if len(r.OverviewFiles) > 0 {
		c.CourseImage = r.OverviewFiles[0].FileURL
	}
	if r.Progress.Valid {
		c.Progress = r.Progress.Float64
	}
	if r.StartDate > 0 {
		c.StartDate = null.Int64From(r.StartDate)
	}
	if r.EndDate > 0 {
		c.EndDate = null.Int64From(r.EndDate)
	}
	if r.EnrolledCount > 0 {
		c.EnrollmentCount = null.IntFrom(r.EnrolledCount)
	}
	return c
}

// CoursesOf lists the courses a user is enrolled in.
func (svc *Service) CoursesOf(ctx context.Context, userID int) []Course {
	body, err := svc.lms.Call(ctx, "core_enrol_get_users_courses", lms.Params{
		"userid": userID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("course.CoursesOf(%d): falling back to empty set", userID), err)
		return []Course{}
	}
	return svc.decodeCourseList(body, "course.CoursesOf")
}

// Catalog lists every visible course on the site.
func (svc *Service) Catalog(ctx context.Context) []Course {
	body, err := svc.lms.Call(ctx, "core_course_get_courses", nil)
	if err != nil {
		svc.logger.Warn("course.Catalog: falling back to empty set", err)
		return []Course{}
	}
	return svc.decodeCourseList(body, "course.Catalog")
}

// CompanyCourses lists the courses attached to an IOMAD company.
func (svc *Service) CompanyCourses(ctx context.Context, companyID int) []Course {
	body, err := svc.lms.Call(ctx, "block_iomad_company_admin_get_company_courses", lms.Params{
		"companyid": companyID,
	})
	if err != nil {
		svc.logger.Warn(fmt.Sprintf("course.CompanyCourses(%d): falling back to empty set", companyID), err)
		return []Course{}
	}

	// IOMAD wraps the list; site courses come back bare.
	var payload struct {
		Companies []struct {
			Courses []rawCourse `json:"courses"`
		} `json:"companies"`
		Courses []rawCourse `json:"courses"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return svc.decodeCourseList(body, "course.CompanyCourses")
	}
	raws := payload.Courses
	for _, comp := range payload.Companies {
		raws = append(raws, comp.Courses...)
	}

	courses := make([]Course, 0, len(raws))
	for _, r := range raws {
		courses = append(courses, svc.toCourse(r))
	}
	return courses
}

func (svc *Service) decodeCourseList(body json.RawMessage, op string) []Course {
	var raws []rawCourse
	if err := json.Unmarshal(body, &raws); err != nil {
		svc.logger.Warn(op+": undecodable payload", err)
		return []Course{}
	}
	courses := make([]Course, 0, len(raws))
	for _, r := range raws {
		courses = append(courses, svc.toCourse(r))
	}
	return courses
}

// EnrolledUsers lists the users enrolled in a course. Unlike the other list
// fetchers this one propagates failure: the attendance aggregator needs to
// distinguish "nobody enrolled" from "could not fetch" to apply its own
// fail-soft substitute.
func (svc *Service) EnrolledUsers(ctx context.Context, courseID int) ([]Enrollment, error) {
	body, err := svc.lms.Call(ctx, "core_enrol_get_enrolled_users", lms.Params{
		"courseid": courseID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching enrolled users for course %d", courseID)
	}

	var raws []struct {
		ID              int    `json:"id"`
		FullName        string `json:"fullname"`
		Email           string `json:"email"`
		Department      string `json:"department"`
		ProfileImageURL string `json:"profileimageurl"`
		LastAccess      int64  `json:"lastaccess"`
	}
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, errors.Wrap(err, "decoding enrolled users")
	}

	enrollments := make([]Enrollment, 0, len(raws))
	for _, r := range raws {
		e := Enrollment{
			ID:              r.ID,
			FullName:        r.FullName,
			Email:           r.Email,
			Department:      r.Department,
			ProfileImageURL: r.ProfileImageURL,
		}
		if r.LastAccess > 0 {
			e.LastAccess = null.Int64From(r.LastAccess)
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, nil
}

// Contents fetches a course's sections and modules in section order.
func (svc *Service) Contents(ctx context.Context, courseID int) ([]Section, error) {
	body, err := svc.lms.Call(ctx, "core_course_get_contents", lms.Params{
		"courseid": courseID,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "fetching contents of course %d", courseID)
	}

	var raws []struct {
		ID      int    `json:"id"`
		Name    string `json:"name"`
		Section int    `json:"section"`
		Summary string `json:"summary"`
		Modules []struct {
			ID          int    `json:"id"`
			Name        string `json:"name"`
			ModName     string `json:"modname"`
			Description string `json:"description"`
			URL         string `json:"url"`
			Contents    []struct {
				FileName string `json:"filename"`
				FileURL  string `json:"fileurl"`
				Content  string `json:"content"`
			} `json:"contents"`
		} `json:"modules"`
	}
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, errors.Wrap(err, "decoding course contents")
	}

	sections := make([]Section, 0, len(raws))
	for _, rs := range raws {
		sec := Section{
			ID:      rs.ID,
			Name:    rs.Name,
			Section: rs.Section,
			Summary: rs.Summary,
			Modules: make([]Module, 0, len(rs.Modules)),
		}
		for _, rm := range rs.Modules {
			mod := Module{
				ID:          rm.ID,
				Name:        rm.Name,
				ModName:     rm.ModName,
				Description: rm.Description,
				MainURL:     rm.URL,
			}
			if len(rm.Contents) > 0 {
				first := rm.Contents[0]
				mod.FileName = first.FileName
				if mod.MainURL == "" {
					mod.MainURL = first.FileURL
				}
				mod.PageContent = first.Content
			}
			sec.Modules = append(sec.Modules, mod)
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

// AssignmentsOf lists assignments across the given courses (resource library).
func (svc *Service) AssignmentsOf(ctx context.Context, courseIDs []int) []Assignment {
	body, err := svc.lms.Call(ctx, "mod_assign_get_assignments", lms.Params{
		"courseids": courseIDs,
	})
	if err != nil {
		svc.logger.Warn("course.AssignmentsOf: falling back to empty set", err)
		return []Assignment{}
	}

	var payload struct {
		Courses []struct {
			ID          int `json:"id"`
			Assignments []struct {
				ID      int    `json:"id"`
				Name    string `json:"name"`
				DueDate int64  `json:"duedate"`
			} `json:"assignments"`
		} `json:"courses"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("course.AssignmentsOf: undecodable payload", err)
		return []Assignment{}
	}

	assignments := []Assignment{}
	for _, c := range payload.Courses {
		for _, a := range c.Assignments {
			assignments = append(assignments, Assignment{
				ID:       a.ID,
				CourseID: c.ID,
				Name:     a.Name,
				DueDate:  a.DueDate,
			})
		}
	}
	return assignments
}

// QuizzesOf lists quizzes across the given courses.
func (svc *Service) QuizzesOf(ctx context.Context, courseIDs []int) []Quiz {
	body, err := svc.lms.Call(ctx, "mod_quiz_get_quizzes_by_courses", lms.Params{
		"courseids": courseIDs,
	})
	if err != nil {
		svc.logger.Warn("course.QuizzesOf: falling back to empty set", err)
		return []Quiz{}
	}

	var payload struct {
		Quizzes []struct {
			ID        int    `json:"id"`
			Course    int    `json:"course"`
			Name      string `json:"name"`
			TimeClose int64  `json:"timeclose"`
		} `json:"quizzes"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		svc.logger.Warn("course.QuizzesOf: undecodable payload", err)
		return []Quiz{}
	}

	quizzes := make([]Quiz, 0, len(payload.Quizzes))
	for _, q := range payload.Quizzes {
		quizzes = append(quizzes, Quiz{ID: q.ID, CourseID: q.Course, Name: q.Name, TimeClose: q.TimeClose})
	}
	return quizzes
}

// ForumsOf lists forums across the given courses.
func (svc *Service) ForumsOf(ctx context.Context, courseIDs []int) []Forum {
	body, err := svc.lms.Call(ctx, "mod_forum_get_forums_by_courses", lms.Params{
		"courseids": courseIDs,
	})
	if err != nil {
		svc.logger.Warn("course.ForumsOf: falling back to empty set", err)
		return []Forum{}
	}

	var raws []struct {
		ID     int    `json:"id"`
		Course int    `json:"course"`
		Name   string `json:"name"`
		Intro  string `json:"intro"`
	}
	if err := json.Unmarshal(body, &raws); err != nil {
		svc.logger.Warn("course.ForumsOf: undecodable payload", err)
		return []Forum{}
	}

	forums := make([]Forum, 0, len(raws))
	for _, f := range raws {
		forums = append(forums, Forum{ID: f.ID, CourseID: f.Course, Name: f.Name, Intro: f.Intro})
	}
	return forums
}
