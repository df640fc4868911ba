package services

import (
	"context"
	"fmt"
	"strings"

	"backlink-radar/models"
	"backlink-radar/providers/textgen"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EmailRequest describes one email of a 3-step outreach sequence.
type EmailRequest struct {
	Step       int               `json:"step" binding:"required"`
	CampaignID *uint             `json:"campaign_id"`
	Variables  map[string]string `json:"variables"`
}

// stepGuidance steers the text generator per sequence step.
var stepGuidance = map[int]string{
	1: "Step 1 (Initial Outreach): Introduce yourself briefly, reference their work on the topic, " +
		"share why your resource could help their audience, and include a soft, low-friction CTA to take a look. " +
		"Aim for 90-130 words.",
	2: "Step 2 (Follow-up): Politely follow up on the initial outreach. Acknowledge they may be busy, " +
		"briefly restate the value, and optionally add one small, new angle or proof point. " +
		"Do not repeat the first email verbatim. Aim for 60-110 words.",
	3: "Step 3 (Final Touch): Be concise and respectful. Signal this is the last email, " +
		"give permission to say no, and keep a helpful tone with a lightweight CTA. " +
		"Aim for 40-80 words.",
}

// OutreachService generates and stores outreach emails. Generation goes
// through the opaque text backend when configured and falls back to the
// built-in templates otherwise, so the endpoint never fails on backend
// trouble.
type OutreachService struct {
	DB      *gorm.DB
	TextGen *textgen.Client
	Logger  *zap.Logger
}

// NewOutreachService creates a new OutreachService.
func NewOutreachService(db *gorm.DB, tg *textgen.Client, logger *zap.Logger) *OutreachService {
	return &OutreachService{DB: db, TextGen: tg, Logger: logger}
}

// GenerateEmail produces subject and body for one sequence step and persists
// the result.
func (s *OutreachService) GenerateEmail(ctx context.Context, req EmailRequest) (*models.OutreachEmail, error) {
	if req.Step < 1 {
		return nil, fmt.Errorf("step must be a positive integer")
	}

	vars := func(key, fallback string) string {
		if v, ok := req.Variables[key]; ok && v != "" {
			return v
		}
		return fallback
	}
	firstName := vars("first_name", "there")
	topic := vars("topic", "your industry")
	yourTopic := vars("your_topic", "digital marketing")
	yourName := vars("your_name", "the team")

	subject := subjectForStep(req.Step, topic, yourTopic)
	body := fmt.Sprintf(`Hi %s,

I found your recent article on %s really useful. I've put together a resource on %s that could add value to your audience.
Would you be open to a quick look?

Best,
%s`, firstName, topic, yourTopic, yourName)

	if s.TextGen.Enabled() {
		generated, err := s.generateBody(ctx, req, firstName, topic, yourTopic)
		if err != nil {
			// Keep the template body on any backend failure.
			s.Logger.Warn("Text generation failed, using template body", zap.Error(err))
		} else {
			body = generated
		}
	}

	email := &models.OutreachEmail{
		CampaignID: req.CampaignID,
		Step:       req.Step,
		Subject:    subject,
		Body:       body,
	}
	if err := s.DB.Create(email).Error; err != nil {
		return nil, err
	}
	return email, nil
}

func subjectForStep(step int, topic, yourTopic string) string {
	switch step {
	case 1:
		return fmt.Sprintf("Quick idea for your readers about %s", topic)
	case 2:
		return fmt.Sprintf("Following up on the %s guide", yourTopic)
	case 3:
		return fmt.Sprintf("Final note about the %s resource", yourTopic)
	default:
		return "Outreach message"
	}
}

// generateBody assembles the prompt, including campaign context and earlier
// sequence steps, and calls the text backend.
func (s *OutreachService) generateBody(ctx context.Context, req EmailRequest, firstName, topic, yourTopic string) (string, error) {
	contextLines := []string{
		"First name: " + firstName,
		"Topic: " + topic,
		"Your topic: " + yourTopic,
	}

	if req.CampaignID != nil {
		var camp models.OutreachCampaign
		if err := s.DB.First(&camp, *req.CampaignID).Error; err == nil {
			if camp.URLToPromote != "" {
				contextLines = append(contextLines, "URL to mention (if natural): "+camp.URLToPromote)
			}
			if camp.TargetKeywords != "" {
				contextLines = append(contextLines, "Target keywords (optional context): "+camp.TargetKeywords)
			}
			tone := camp.EmailTone
			if tone == "" {
				tone = "friendly and professional"
			}
			contextLines = append(contextLines, "Tone: "+tone)
		}

		// Feed follow-ups the earlier steps so they do not repeat themselves.
		if req.Step == 2 || req.Step == 3 {
			var previous []models.OutreachEmail
			err := s.DB.Where("campaign_id = ? AND step < ?", *req.CampaignID, req.Step).
				Order("step asc").Find(&previous).Error
			if err == nil && len(previous) > 0 {
				var blocks []string
				for _, p := range previous {
					blocks = append(blocks, fmt.Sprintf("Step %d Subject: %s\nStep %d Body:\n%s\n", p.Step, p.Subject, p.Step, p.Body))
				}
				contextLines = append(contextLines,
					"Previous emails in sequence (for context, do not duplicate):\n"+strings.Join(blocks, "\n\n"))
			}
		}
	}

	prompt := fmt.Sprintf("Write the body of an outreach email for step %d in a 3-step sequence.\n%s\n\n%s\n\nConstraints:\n- Keep it in plain text.\n- No signatures beyond the sender's name.\n- No markdown.\n- Keep line length reasonable.",
		req.Step, stepGuidance[req.Step], strings.Join(contextLines, "\n"))

	generated, err := s.TextGen.Complete(ctx, "You are a helpful outreach copywriter.", prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(generated), nil
}
