// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

// =============================================================================
// TEXT PROVIDERS
// =============================================================================

var textProviders = []*Provider{
	{
		ID:           "openai",
		Name:         "OpenAI",
		BaseURL:      "https://api.openai.com/v1/chat/completions",
		DefaultModel: "gpt-4-turbo-preview",
		Models: []Model{
			{"gpt-4-turbo-preview", "GPT-4 Turbo"},
			{"gpt-4", "GPT-4"},
			{"gpt-3.5-turbo", "GPT-3.5 Turbo"},
			{"gpt-3.5-turbo-16k", "GPT-3.5 Turbo 16K"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
	{
		ID:           "googleai",
		Name:         "Google AI Studio",
		BaseURL:      "https://generativelanguage.googleapis.com/v1beta3",
		DefaultModel: "gemini-pro",
		Models: []Model{
			{"gemini-pro", "Gemini Pro"},
			{"gemini-pro-vision", "Gemini Pro Vision"},
			{"gemini-1.5-pro", "Gemini 1.5 Pro"},
			{"gemini-1.5-flash", "Gemini 1.5 Flash"},
		},
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		RequiresKey: true,
	},
	{
		ID:           "anthropic",
		Name:         "Anthropic",
		BaseURL:      "https://api.anthropic.com/v1/messages",
		DefaultModel: "claude-3-opus-20240229",
		Models: []Model{
			{"claude-3-opus-20240229", "Claude 3 Opus"},
			{"claude-3-sonnet-20240229", "Claude 3 Sonnet"},
			{"claude-3-haiku-20240307", "Claude 3 Haiku"},
			{"claude-2.1", "Claude 2.1"},
			{"claude-2.0", "Claude 2.0"},
		},
		Headers: map[string]string{
			"Content-Type":      "application/json",
			"x-api-key":         "{API_KEY}",
			"anthropic-version": "2023-06-01",
		},
		RequiresKey: true,
	},
	{
		ID:           "deepseek",
		Name:         "DeepSeek",
		BaseURL:      "https://api.deepseek.com/v1/chat/completions",
		DefaultModel: "deepseek-chat",
		Models: []Model{
			{"deepseek-chat", "DeepSeek Chat"},
			{"deepseek-coder", "DeepSeek Coder"},
			{"deepseek-math", "DeepSeek Math"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
	{
		ID:           "xai",
		Name:         "xAI Grok",
		BaseURL:      "https://api.x.ai/v1/chat/completions",
		DefaultModel: "grok-beta",
		Models: []Model{
			{"grok-beta", "Grok Beta"},
			{"grok-vision-beta", "Grok Vision Beta"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
	{
		ID:           "openrouter",
		Name:         "OpenRouter",
		BaseURL:      "https://openrouter.ai/api/v1/chat/completions",
		DefaultModel: "deepseek/deepseek-chat-v3-0324:free",
		Models: []Model{
			{"deepseek/deepseek-chat-v3-0324:free", "DeepSeek V3"},
			{"deepseek/deepseek-r1-0528:free", "DeepSeek R1"},
			{"qwen/qwq-32b:free", "Qwen QwQ"},
			{"qwen/qwen3-235b-a22b:free", "Qwen 3.0"},
			{"z-ai/glm-4.5-air:free", "GLM-4.5 Air"},
			{"moonshotai/kimi-k2:free", "Kimi K2"},
			{"tencent/hunyuan-a13b-instruct:free", "Hunyuan A13B"},
			{"openai/gpt-oss-20b:free", "GPT-OSS"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
			"X-Title":       "NextAI",
		},
		RequiresKey: true,
	},
	{
		ID:           "pollinations",
		Name:         "Pollinations",
		BaseURL:      "https://text.pollinations.ai/openai",
		DefaultModel: "deepseek-reasoning",
		Models: []Model{
			{"openai", "OpenAI"},
			{"openai-fast", "OpenAI Fast"},
			{"gpt-5-nano", "GPT-5 Nano"},
			{"openai-reasoning", "GPT o3"},
			{"gemini", "Gemini Flash"},
			{"evil", "Evil"},
			{"mistral", "Mistral AI"},
			{"qwen", "Qwen Mini"},
			{"deepseek-reasoning", "DeepSeek R1 Flash"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
			"X-Title":       "NextAI",
		},
	},
	{
		ID:           "chatanywhere",
		Name:         "Chat Anywhere",
		BaseURL:      "https://api.chatanywhere.tech/v1/chat/completions",
		DefaultModel: "deepseek-r1",
		Models: []Model{
			{"gpt-3.5-turbo", "GPT-3.5 Turbo"},
			{"gpt-4o", "GPT-4o"},
			{"gpt-4o-mini", "GPT-4o Mini"},
			{"gpt-4.1", "GPT-4.1"},
			{"gpt-4.1-mini", "GPT-4.1 Mini"},
			{"gpt-4.1-nano", "GPT-4.1 Nano"},
			{"gpt-5", "GPT-5"},
			{"gpt-5-mini", "GPT-5 Mini"},
			{"gpt-5-nano", "GPT-5 Nano"},
			{"deepseek-v3", "DeepSeek V3 Lite"},
			{"deepseek-r1", "DeepSeek R1 Lite"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
	},
	{
		ID:           "ollama",
		Name:         "Ollama",
		BaseURL:      "http://localhost:11434/v1/chat/completions",
		DefaultModel: "llama3.2",
		Models: []Model{
			{"llama3.2", "Llama 3.2"},
			{"llama3.1", "Llama 3.1"},
			{"qwen2.5", "Qwen 2.5"},
			{"deepseek-coder-v2", "DeepSeek Coder V2"},
			{"codellama", "Code Llama"},
			{"mistral", "Mistral"},
		},
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
	},
	{
		ID:           "modelscope",
		Name:         "ModelScope",
		BaseURL:      "https://api-inference.modelscope.cn/v1/chat/completions",
		DefaultModel: "deepseek-ai/DeepSeek-V3.1",
		Models: []Model{
			{"deepseek-ai/DeepSeek-V3", "DeepSeek V3"},
			{"deepseek-ai/DeepSeek-V3.1", "DeepSeek V3.1"},
			{"deepseek-ai/DeepSeek-R1", "DeepSeek R1"},
			{"Qwen/Qwen3-30B-A3B-Thinking-2507", "Qwen 3.0 Mini"},
			{"Qwen/Qwen3-235B-A22B-Instruct-2507", "Qwen 3.0"},
			{"Qwen/Qwen3-235B-A22B-Thinking-2507", "Qwen 3.0 Thinking"},
			{"moonshotai/Kimi-K2-Instruct", "Kimi K2"},
			{"ZhipuAI/GLM-4.5", "GLM-4.5"},
			{"MiniMax/MiniMax-M1-80k", "MiniMax M1"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
	},
}

// =============================================================================
// IMAGE PROVIDERS
// =============================================================================

var imageProviders = []*Provider{
	{
		ID:           "openai_dalle",
		Name:         "OpenAI DALL-E",
		BaseURL:      "https://api.openai.com/v1/images/generations",
		Method:       "POST",
		DefaultModel: "dall-e-3",
		Models: []Model{
			{"dall-e-3", "DALL-E 3"},
			{"dall-e-2", "DALL-E 2"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
	{
		ID:           "pollinations_image",
		Name:         "Pollinations Image",
		BaseURL:      "https://image.pollinations.ai/prompt",
		Method:       "GET",
		DefaultModel: "turbo",
		Models: []Model{
			{"turbo", "Turbo"},
			{"flux", "Flux"},
			{"flux-3d", "Flux 3D"},
			{"flux-pro", "Flux Pro"},
			{"flux-realism", "Flux Realism"},
			{"flux-anime", "Flux Anime"},
		},
		Headers: map[string]string{},
	},
	{
		ID:           "stability",
		Name:         "Stability AI",
		BaseURL:      "https://api.stability.ai/v1/generation",
		Method:       "POST",
		DefaultModel: "stable-diffusion-xl-1024-v1-0",
		Models: []Model{
			{"stable-diffusion-xl-1024-v1-0", "Stable Diffusion XL"},
			{"stable-diffusion-v1-6", "Stable Diffusion v1.6"},
			{"stable-diffusion-512-v2-1", "Stable Diffusion v2.1"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
	{
		ID:           "midjourney",
		Name:         "Midjourney",
		BaseURL:      "https://api.midjourney.com/v1/imagine",
		Method:       "POST",
		DefaultModel: "midjourney-v6",
		Models: []Model{
			{"midjourney-v6", "Midjourney v6"},
			{"midjourney-v5", "Midjourney v5"},
			{"niji-v6", "Niji v6"},
		},
		Headers: map[string]string{
			"Content-Type":  "application/json",
			"Authorization": "Bearer {API_KEY}",
		},
		RequiresKey: true,
	},
}
