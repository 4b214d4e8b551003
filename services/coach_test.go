package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"brainer-platform/models"
)

func TestStudyTips(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "k" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"### Plan"},{"text":" go!"}]}}]}`))
	}))
	defer srv.Close()

	coach := NewCoachService(srv.URL, "k", "")
	text := coach.StudyTips(context.Background(), "Maths Olympiad", "STEM")
	if text != "### Plan go!" {
		t.Errorf("text = %q", text)
	}
	if len(got.Contents) != 1 || !strings.Contains(got.Contents[0].Parts[0].Text, `"Maths Olympiad"`) {
		t.Errorf("prompt not sent: %+v", got)
	}
}

func TestCourseHelpRoles(t *testing.T) {
	var got generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Sure."}]}}]}`))
	}))
	defer srv.Close()

	course := &models.Course{Title: "Intro to Python", Modules: []models.CourseModule{{Title: "Loops", Content: "for and while"}}}
	conv := []models.Message{
		{Sender: models.SenderUser, Text: "What is a loop?"},
		{Sender: models.SenderAI, Text: "A repeated block."},
		{Sender: models.SenderUser, Text: "Example?"},
	}
	text := NewCoachService(srv.URL, "k", "").CourseHelp(context.Background(), course, conv)
	if text != "Sure." {
		t.Fatalf("text = %q", text)
	}
	roles := []string{}
	for _, c := range got.Contents {
		roles = append(roles, c.Role)
	}
	if strings.Join(roles, ",") != "user,model,user" {
		t.Errorf("roles = %v", roles)
	}
	if got.SystemInstruction == nil || !strings.Contains(got.SystemInstruction.Parts[0].Text, "Module 1: Loops - for and while") {
		t.Errorf("system instruction = %+v", got.SystemInstruction)
	}
}

func TestCoachFallbacks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	coach := NewCoachService(srv.URL, "k", "")
	if got := coach.StudyTips(context.Background(), "X", "Y"); got != StudyTipsFallback {
		t.Errorf("study tips = %q", got)
	}
	course := &models.Course{Title: "C"}
	if got := coach.CourseHelp(context.Background(), course, []models.Message{{Sender: models.SenderUser, Text: "hi"}}); got != CourseHelpFallback {
		t.Errorf("course help = %q", got)
	}

	noKey := NewCoachService(srv.URL, "", "")
	if got := noKey.StudyTips(context.Background(), "X", "Y"); got != StudyTipsFallback {
		t.Errorf("missing key = %q", got)
	}
}
