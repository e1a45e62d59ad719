// Package provider selects and constructs the LLM chat model backend at
// runtime. Supported backends: Google Gemini, Ollama, OpenAI, Azure OpenAI,
// AWS Bedrock.
package provider

// Backend enumerates the supported LLM inference providers.
type Backend string

const (
	// BackendGemini selects Google Gemini via AI Studio.
	BackendGemini Backend = "gemini"
	// BackendOllama selects a locally running Ollama instance.
	BackendOllama Backend = "ollama"
	// BackendOpenAI selects the OpenAI API.
	BackendOpenAI Backend = "openai"
	// BackendAzure selects Azure OpenAI Service.
	BackendAzure Backend = "azure"
	// BackendBedrock selects AWS Bedrock.
	BackendBedrock Backend = "bedrock"
)

// ProviderGemini holds Google Gemini credentials and model selection.
type ProviderGemini struct {
	// APIKey is the Google AI Studio API key (GOOGLE_API_KEY).
	APIKey string
	// Model is the Gemini model name (e.g. "gemini-flash-latest").
	Model string
}

// ProviderOllama holds Ollama connection settings.
type ProviderOllama struct {
	// Host is the Ollama server base URL (e.g. "http://localhost:11434").
	Host string
	// Model is the Ollama model name (e.g. "llama3").
	Model string
}

// ProviderOpenAI holds OpenAI credentials and model selection.
type ProviderOpenAI struct {
	// APIKey is the OpenAI API key (OPENAI_API_KEY).
	APIKey string
	// Model is the OpenAI model name (e.g. "gpt-4o").
	Model string
}

// ProviderAzureOpenAI holds Azure OpenAI Service settings.
type ProviderAzureOpenAI struct {
	// APIKey is the Azure OpenAI API key (AZURE_OPENAI_API_KEY).
	APIKey string
	// Endpoint is the Azure resource endpoint (AZURE_OPENAI_ENDPOINT).
	Endpoint string
	// Deployment is the Azure deployment name (AZURE_OPENAI_DEPLOYMENT).
	Deployment string
	// APIVersion is the Azure OpenAI REST API version (e.g. "2024-02-01").
	APIVersion string
}

// ProviderBedrock holds AWS Bedrock settings. AWS credentials are resolved
// via the standard SDK credential chain.
type ProviderBedrock struct {
	// AWSRegion is the AWS region for Bedrock (AWS_REGION).
	AWSRegion string
	// ModelID is the Bedrock model identifier (BEDROCK_MODEL_ID).
	ModelID string
	// Endpoint overrides the Bedrock-compatible endpoint URL.
	Endpoint string
	// APIKey is the bearer credential for Bedrock-compatible gateways.
	APIKey string
}

// SharedTuning holds generation parameters applied across backends.
type SharedTuning struct {
	// MaxTokens caps the number of tokens the model may generate per response.
	MaxTokens int
	// Temperature controls response randomness (0.0–1.0).
	Temperature float32
}

// Config holds all provider-level configuration resolved from environment
// variables or explicit caller-supplied values. Only the section matching
// Backend is consulted.
type Config struct {
	// Backend identifies which inference provider to use.
	Backend Backend

	// Gemini holds Google Gemini settings (gemini backend only).
	Gemini ProviderGemini

	// Ollama holds Ollama settings (ollama backend only).
	Ollama ProviderOllama

	// OpenAI holds OpenAI settings (openai backend only).
	OpenAI ProviderOpenAI

	// AzureOpenAI holds Azure OpenAI settings (azure backend only).
	AzureOpenAI ProviderAzureOpenAI

	// Bedrock holds AWS Bedrock settings (bedrock backend only).
	Bedrock ProviderBedrock

	// Tuning holds shared generation parameters.
	Tuning SharedTuning
}
