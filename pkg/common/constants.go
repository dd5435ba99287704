package common

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"

	CacheKeyPrefixPrice  = "assistant:price:"
	CacheKeyPrefixMarket = "assistant:market:"

	RequestIDHeader = "X-Request-ID"
)
