package eino

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	gemini "github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"researcher/internal/capability"
)

// Config represents the configuration for the Eino LLM integration.
type Config struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
}

// Service implements capability.Generator on top of an Eino chat model.
// Structured calls enforce a JSON output spec; plain calls return text.
type Service struct {
	config         Config
	chatModel      model.BaseChatModel
	structuredTmpl prompt.ChatTemplate
}

// NewService creates a generation service with a provider-backed chat model.
func NewService(config Config) (*Service, error) {
	s := &Service{config: config}
	if err := s.initializeChatModel(); err != nil {
		return nil, fmt.Errorf("failed to initialize chat model: %w", err)
	}
	s.initializeTemplate()
	return s, nil
}

// NewServiceWithModel creates a generation service around a pre-built chat
// model. Used by tests.
func NewServiceWithModel(config Config, chatModel model.BaseChatModel) *Service {
	s := &Service{config: config, chatModel: chatModel}
	s.initializeTemplate()
	return s
}

func (s *Service) initializeChatModel() error {
	switch strings.ToLower(s.config.Provider) {
	case "gemini":
		return s.initializeGeminiModel()
	default:
		return fmt.Errorf("unsupported provider: %s. Supported: gemini", s.config.Provider)
	}
}

func (s *Service) initializeGeminiModel() error {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: s.config.APIKey,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}

	geminiModel, err := gemini.NewChatModel(context.Background(), &gemini.Config{
		Client: client,
		Model:  s.config.Model,
	})
	if err != nil {
		return fmt.Errorf("failed to create Gemini chat model: %w", err)
	}

	s.chatModel = geminiModel
	return nil
}

func (s *Service) initializeTemplate() {
	systemTemplate := schema.SystemMessage(`You are a research assistant that returns structured data.

CRITICAL REQUIREMENTS:
1. You MUST return ONLY a valid JSON object that exactly matches the provided schema
2. Do NOT include any explanations, markdown formatting, or additional text
3. If you cannot determine a field, use null
4. All field names and types must match the schema exactly

REQUIRED OUTPUT SCHEMA:
{output_spec}

Remember: Return ONLY the JSON object.`)

	userTemplate := schema.UserMessage(`{user_prompt}`)

	s.structuredTmpl = prompt.FromMessages(schema.FString, systemTemplate, userTemplate)
}

// Generate runs one structured-generation call and returns the decoded
// object, validated against outputSpec.
func (s *Service) Generate(ctx context.Context, userPrompt string, outputSpec map[string]interface{}) (map[string]interface{}, error) {
	if s.chatModel == nil {
		return nil, capability.NewError(capability.KindGenerate, "eino.generate", fmt.Errorf("chat model not initialized"))
	}

	specJSON, err := json.MarshalIndent(outputSpec, "", "  ")
	if err != nil {
		return nil, capability.NewError(capability.KindGenerate, "eino.generate", err)
	}

	messages, err := s.structuredTmpl.Format(ctx, map[string]any{
		"output_spec": string(specJSON),
		"user_prompt": userPrompt,
	})
	if err != nil {
		return nil, capability.NewError(capability.KindGenerate, "eino.generate", err)
	}

	response, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, capability.NewError(capability.KindGenerate, "eino.generate", err)
	}

	data, err := s.parseResponse(response.Content, outputSpec)
	if err != nil {
		return nil, capability.NewValidationError(capability.KindGenerate, err.Error())
	}
	return data, nil
}

// GenerateText runs one plain completion and returns the trimmed text.
func (s *Service) GenerateText(ctx context.Context, userPrompt string) (string, error) {
	if s.chatModel == nil {
		return "", capability.NewError(capability.KindGenerate, "eino.generate_text", fmt.Errorf("chat model not initialized"))
	}

	response, err := s.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(userPrompt)})
	if err != nil {
		return "", capability.NewError(capability.KindGenerate, "eino.generate_text", err)
	}
	return strings.TrimSpace(response.Content), nil
}

// parseResponse strips markdown fences, decodes the JSON object and checks
// it against the expected spec.
func (s *Service) parseResponse(content string, outputSpec map[string]interface{}) (map[string]interface{}, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}

	if err := validateStructure(result, outputSpec); err != nil {
		return nil, fmt.Errorf("response structure validation failed: %w", err)
	}
	return result, nil
}

func validateStructure(response, spec map[string]interface{}) error {
	for key, expectedType := range spec {
		value, exists := response[key]
		if !exists || value == nil {
			// missing and null are acceptable
			continue
		}
		if err := validateFieldType(key, value, expectedType); err != nil {
			return err
		}
	}
	return nil
}

func validateFieldType(fieldName string, value, expectedType interface{}) error {
	switch et := expectedType.(type) {
	case string:
		switch et {
		case "string":
			if _, ok := value.(string); !ok {
				return fmt.Errorf("field '%s' should be string, got %T", fieldName, value)
			}
		case "number":
			if !isNumeric(value) {
				return fmt.Errorf("field '%s' should be number, got %T", fieldName, value)
			}
		case "boolean":
			if _, ok := value.(bool); !ok {
				return fmt.Errorf("field '%s' should be boolean, got %T", fieldName, value)
			}
		case "array":
			if _, ok := value.([]interface{}); !ok {
				return fmt.Errorf("field '%s' should be array, got %T", fieldName, value)
			}
		case "object":
			if _, ok := value.(map[string]interface{}); !ok {
				return fmt.Errorf("field '%s' should be object, got %T", fieldName, value)
			}
		}
	case map[string]interface{}:
		valueMap, ok := value.(map[string]interface{})
		if !ok {
			return fmt.Errorf("field '%s' should be object, got %T", fieldName, value)
		}
		return validateStructure(valueMap, et)
	}
	return nil
}

func isNumeric(value interface{}) bool {
	switch value.(type) {
	case float64, float32, int, int64, int32:
		return true
	default:
		return false
	}
}
