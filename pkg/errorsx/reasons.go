package errorsx

// ReasonCode is a short machine-readable error reason.
type ReasonCode string

const (
	ReasonUnknown ReasonCode = "unknown"

	// Compose-time failures. These abort suite construction.
	ReasonCompose      ReasonCode = "compose"
	ReasonToolNotFound ReasonCode = "tool_not_found"
	ReasonBadArgs      ReasonCode = "bad_args"

	ReasonTranscribe          ReasonCode = "transcribe"
	ReasonTranscribeRateLimit ReasonCode = "transcribe_rate_limit"

	ReasonSynthesize          ReasonCode = "synthesize"
	ReasonSynthesizeRateLimit ReasonCode = "synthesize_rate_limit"
	ReasonVoiceClone          ReasonCode = "voice_clone"

	ReasonTranslate          ReasonCode = "translate"
	ReasonTranslateRateLimit ReasonCode = "translate_rate_limit"

	ReasonMixPlan   ReasonCode = "mix_plan"
	ReasonMixRender ReasonCode = "mix_render"

	ReasonArtifactWrite ReasonCode = "artifact_write"
	ReasonDeliveryDial  ReasonCode = "delivery_dial"
	ReasonToolTimeout   ReasonCode = "tool_timeout"
)
