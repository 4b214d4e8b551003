package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"brainer-platform/models"
	"brainer-platform/utils"
)

const (
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultGeminiModel   = "gemini-2.5-flash"

	StudyTipsFallback  = "I'm sorry, I couldn't generate study tips at this moment. Please check your API key and try again later."
	CourseHelpFallback = "I'm sorry, I couldn't generate a response at this moment. Please check your API key and try again later."
)

// CoachService asks the Gemini API for study tips and course tutoring.
// Failures never reach the caller; a fixed apology is returned instead.
type CoachService struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewCoachService(baseURL, apiKey, model string) *CoachService {
	if baseURL == "" {
		baseURL = DefaultGeminiBaseURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	return &CoachService{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		Client:  utils.HTTPClient,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generateRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// StudyTips returns a markdown coaching plan for a competition.
func (s *CoachService) StudyTips(ctx context.Context, competitionTitle, category string) string {
	prompt := fmt.Sprintf(studyTipsPrompt, competitionTitle, category)
	text, err := s.generate(ctx, generateRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		log.Printf("❌ [COACH] Study tips for %q failed: %v", competitionTitle, err)
		return StudyTipsFallback
	}
	return text
}

// CourseHelp answers the latest message of a tutoring conversation.
func (s *CoachService) CourseHelp(ctx context.Context, course *models.Course, conversation []models.Message) string {
	var modules strings.Builder
	for i, m := range course.Modules {
		fmt.Fprintf(&modules, "Module %d: %s - %s\n", i+1, m.Title, m.Content)
	}
	system := fmt.Sprintf(courseHelpPrompt, course.Title, course.Description, modules.String())

	req := generateRequest{SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}}}
	for _, msg := range conversation {
		role := "model"
		if msg.Sender == models.SenderUser {
			role = "user"
		}
		req.Contents = append(req.Contents, geminiContent{Role: role, Parts: []geminiPart{{Text: msg.Text}}})
	}
	if len(req.Contents) == 0 {
		return CourseHelpFallback
	}

	text, err := s.generate(ctx, req)
	if err != nil {
		log.Printf("❌ [COACH] Course help for %q failed: %v", course.Title, err)
		return CourseHelpFallback
	}
	return text
}

func (s *CoachService) generate(ctx context.Context, body generateRequest) (string, error) {
	if s.APIKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY is not set")
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", s.BaseURL, s.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	var text strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			text.WriteString(p.Text)
		}
		if text.Len() > 0 {
			break
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text")
	}
	return text.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

const studyTipsPrompt = `You are an expert AI academic coach for "Brainer", a Nigerian competitive learning platform. A high school student has signed up for the "%s" in the category of "%s".

Your task is to generate a comprehensive, personalized coaching plan to help them excel. Your response must be encouraging, strategic, and actionable.

Your response must include the following sections, formatted in clear markdown:

### 🚀 Your Personalized Coaching Plan
Start with a brief, powerful, and encouraging introduction that builds their confidence.

### 🗓️ Recommended Study Schedule
Provide a simple 1-week study schedule outline. Be specific about what to focus on each day.

### 🎯 Key Strategies for Success
List three critical, actionable strategies tailored to the competition's category.

### 🧠 Sample Practice Problem
Create one relevant practice problem that reflects the nature of the competition.

### ✅ Step-by-Step Solution
Provide a detailed, step-by-step solution to the practice problem, explaining the logic behind each step.

### 💪 Motivational Nudge
End with a short, powerful motivational message to inspire the student.`

const courseHelpPrompt = `You are an expert and friendly AI Tutor for a course on the "Brainer" learning platform.
A student is asking for help with the following course:

Course Title: "%s"
Course Description: "%s"
Course Modules:
%s
Please provide a clear, helpful, and encouraging response based on the conversation history and the latest question.
- If the student asks for an explanation, break down the concept in simple terms.
- If the student asks for a practice problem, create a relevant one with a solution.
- If the student asks for resources, suggest relevant articles, videos, or books.
- Keep your response focused on the course content.
- Format the response in easy-to-read markdown.`
