package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	. "github.com/somahub/portal/apps/api/echo"
	"github.com/somahub/portal/core/course"
)

const contentsPayload = `[
	{"id":21,"name":"Week 1","section":1,"modules":[
		{"id":101,"name":"Syllabus","modname":"resource","contents":[{"filename":"syllabus.pdf","fileurl":"https://lms/f/syllabus.pdf"}]},
		{"id":102,"name":"Intro quiz","modname":"quiz","url":"https://lms/mod/quiz/view.php?id=102"}
	]},
	{"id":22,"name":"Week 2","section":2}
]`

func Test_courseApi_query(t *testing.T) {
	stubLMS(t, map[string]string{
		"core_course_get_courses":                       `[{"id":1,"fullname":"Course A"},{"id":2,"fullname":"Course B"}]`,
		"block_iomad_company_admin_get_company_courses": `{"companies":[{"courses":[{"id":9,"fullname":"Company course"}]}]}`,
	})

	t.Run("catalog", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses", getToken(t, teacherUsr))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var courses []course.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(courses) != 2 {
			t.Fatalf("len = %d; want 2", len(courses))
		}
	})

	t.Run("company filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/courses?companyid=7", getToken(t, teacherUsr))
		app.ServeHTTP(rec, req)

		var courses []course.Course
		if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(courses) != 1 || courses[0].ID != 9 {
			t.Errorf("unexpected courses: %v", rec.Body.String())
		}
	})

	t.Run("no token", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/v1/courses",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		}
		req, rec := newRequest(tt.method, tt.path)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_mine(t *testing.T) {
	stubLMS(t, map[string]string{
		"core_enrol_get_users_courses": `[{"id":5,"fullname":"My course","progress":40}]`,
	})

	req, rec := newAuthRequest(http.MethodGet, "/v1/courses/mine", getToken(t, teacherUsr))
	app.ServeHTTP(rec, req)

	var courses []course.Course
	if err := json.Unmarshal(rec.Body.Bytes(), &courses); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(courses) != 1 || courses[0].Progress != 40 {
		t.Errorf("unexpected courses: %v", rec.Body.String())
	}
}

func Test_courseApi_contents(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		stubLMS(t, map[string]string{"core_course_get_contents": contentsPayload})

		req, rec := newAuthRequest(http.MethodGet, "/v1/courses/5/contents", getToken(t, teacherUsr))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var sections []course.Section
		if err := json.Unmarshal(rec.Body.Bytes(), &sections); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if len(sections) != 2 || len(sections[0].Modules) != 2 {
			t.Errorf("unexpected sections: %v", rec.Body.String())
		}
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		// contents unstubbed: the site answers with an exception
		tt := httpTest{
			method: http.MethodGet, path: "/v1/courses/5/contents", token: getToken(t, teacherUsr),
			wantCode: http.StatusBadGateway, wantData: marchallObj(t, httpErr{Error: "learning platform unavailable"}),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("bad id", func(t *testing.T) {
		tt := httpTest{
			method: http.MethodGet, path: "/v1/courses/abc/contents", token: getToken(t, teacherUsr),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		}
		req, rec := newAuthRequest(tt.method, tt.path, tt.token)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})
}

func Test_courseApi_pathway(t *testing.T) {
	stubLMS(t, map[string]string{"core_course_get_contents": contentsPayload})

	req, rec := newAuthRequest(http.MethodGet, "/v1/courses/5/pathway", getToken(t, teacherUsr))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
	}
	var resp PathwayResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Days) != 2 {
		t.Fatalf("days = %d; want 2", len(resp.Days))
	}
	if resp.Days[0].DayName != "Day 1" || resp.Days[0].TotalActivities != 2 {
		t.Errorf("unexpected day 1: %+v", resp.Days[0])
	}
	if got := resp.Styles["quiz"].Label; got != "Quiz" {
		t.Errorf("quiz style label = %q; want %q", got, "Quiz")
	}
	if got := resp.Styles["resource"].Label; got != "Resource" {
		t.Errorf("resource style label = %q; want %q", got, "Resource")
	}
}

func Test_courseApi_enrollments(t *testing.T) {
	stubLMS(t, map[string]string{
		"core_enrol_get_enrolled_users": `[{"id":3,"fullname":"Jane Doe"}]`,
	})

	tests := []httpTest{
		{name: "teacher forbidden", method: http.MethodGet, path: "/v1/courses/5/enrollments", token: getToken(t, teacherUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "manager ok", method: http.MethodGet, path: "/v1/courses/5/enrollments", token: getToken(t, managerUsr),
			wantCode: http.StatusOK, wantData: marchallObj(t, []course.Enrollment{{ID: 3, FullName: "Jane Doe"}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_courseApi_library(t *testing.T) {
	stubLMS(t, map[string]string{
		"mod_assign_get_assignments":      `{"courses":[{"id":5,"assignments":[{"id":1,"name":"Essay"}]}]}`,
		"mod_quiz_get_quizzes_by_courses": `{"quizzes":[{"id":2,"course":5,"name":"Final"}]}`,
		"mod_forum_get_forums_by_courses": `[{"id":3,"course":5,"name":"Q&A"}]`,
	})

	tests := []httpTest{
		{name: "assignments", method: http.MethodGet, path: "/v1/library/assignments?courseid=5", token: getToken(t, teacherUsr),
			wantCode: http.StatusOK, wantData: marchallObj(t, []course.Assignment{{ID: 1, CourseID: 5, Name: "Essay"}})},
		{name: "quizzes", method: http.MethodGet, path: "/v1/library/quizzes?courseid=5", token: getToken(t, teacherUsr),
			wantCode: http.StatusOK, wantData: marchallObj(t, []course.Quiz{{ID: 2, CourseID: 5, Name: "Final"}})},
		{name: "forums", method: http.MethodGet, path: "/v1/library/forums?courseid=5", token: getToken(t, teacherUsr),
			wantCode: http.StatusOK, wantData: marchallObj(t, []course.Forum{{ID: 3, CourseID: 5, Name: "Q&A"}})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
