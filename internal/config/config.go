package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	Ingress struct {
		TokenSecret   string
		TokenSkewSecs int
	}
	Turn struct {
		PauseShort     time.Duration
		PauseMedium    time.Duration
		PauseLong      time.Duration
		MinListen      time.Duration
		MaxSilence     time.Duration
		FluentStreak   int // consecutive FLUENT turns before SHORT tier applies
		BargeInEnabled bool
	}
	Lexicon struct {
		Fillers      []string
		Affirmations []string
		ExitKeywords []string
		ExitPhrases  []string
	}
	Classify struct {
		ShortUtteranceFloor int     // word count at or below which FRAGMENTED applies
		FillerRatioMax      float64 // above this, HESITANT
		HesitationMax       int     // hesitation markers above this, HESITANT
		TrustASRWords       int     // word count at which ASR output is trusted as-is
	}
	Policy struct {
		QuestionBudget   int
		SilentTurnsNudge int    // consecutive SILENT turns before a nudge
		StuckTopicTurns  int    // turns on one topic before it is stale
		Greeting         string // spoken before the first turn opens; empty disables
	}
	Nudges []NudgeTopic
	LLM    struct {
		Endpoint string
		APIKey   string
		Model    string
		Timeout  time.Duration
	}
	TTS struct {
		Endpoint     string
		Voice        string
		SpeakingRate float64
	}
}

// NudgeTopic is one entry of the static nudge repertoire, in priority order.
type NudgeTopic struct {
	ID     string
	Prompt string
}

func Load() Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("ingress.token_skew_secs", 30)

	v.SetDefault("turn.pause_short_ms", 2500)
	v.SetDefault("turn.pause_medium_ms", 3500)
	v.SetDefault("turn.pause_long_ms", 5500)
	v.SetDefault("turn.min_listen_ms", 3000)
	v.SetDefault("turn.max_silence_ms", 20000)
	v.SetDefault("turn.fluent_streak", 4)
	v.SetDefault("turn.barge_in_enabled", false)

	v.SetDefault("lexicon.fillers", "um,uh,erm,eh,ah,hmm,umm")
	v.SetDefault("lexicon.affirmations",
		"yes,yeah,yep,yup,uh huh,mhm,mm,okay,ok,sure,right,true,exactly,indeed,absolutely,of course,definitely,certainly")
	v.SetDefault("lexicon.exit_keywords", "exit,quit,goodbye,bye,good bye,good night,stop")
	v.SetDefault("lexicon.exit_phrases",
		"that's it for today|that's all for today|we are done for today|we're done for today|let's stop here|i want to stop|i want to finish|we can stop now|see you tomorrow|talk to you tomorrow")

	v.SetDefault("classify.short_utterance_floor", 2)
	v.SetDefault("classify.filler_ratio_max", 0.25)
	v.SetDefault("classify.hesitation_max", 1)
	v.SetDefault("classify.trust_asr_words", 3)

	v.SetDefault("policy.question_budget", 8)
	v.SetDefault("policy.silent_turns_nudge", 2)
	v.SetDefault("policy.stuck_topic_turns", 3)
	v.SetDefault("policy.greeting", "Hello, it's lovely to talk with you. How has your day been?")

	v.SetDefault("llm.model", "gpt-4.1")
	v.SetDefault("llm.timeout_ms", 12000)

	v.SetDefault("tts.voice", "en-GB-Neural2-F")
	v.SetDefault("tts.speaking_rate", 0.95)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("ingress.token_secret", "INGRESS_TOKEN_SECRET")
	v.BindEnv("ingress.token_skew_secs", "INGRESS_TOKEN_SKEW_SECS")

	v.BindEnv("turn.pause_short_ms", "TURN_PAUSE_SHORT_MS")
	v.BindEnv("turn.pause_medium_ms", "TURN_PAUSE_MEDIUM_MS")
	v.BindEnv("turn.pause_long_ms", "TURN_PAUSE_LONG_MS")
	v.BindEnv("turn.min_listen_ms", "TURN_MIN_LISTEN_MS")
	v.BindEnv("turn.max_silence_ms", "TURN_MAX_SILENCE_MS")
	v.BindEnv("turn.fluent_streak", "TURN_FLUENT_STREAK")
	v.BindEnv("turn.barge_in_enabled", "TURN_BARGE_IN_ENABLED")

	v.BindEnv("lexicon.fillers", "LEXICON_FILLERS")
	v.BindEnv("lexicon.affirmations", "LEXICON_AFFIRMATIONS")
	v.BindEnv("lexicon.exit_keywords", "LEXICON_EXIT_KEYWORDS")
	v.BindEnv("lexicon.exit_phrases", "LEXICON_EXIT_PHRASES")

	v.BindEnv("classify.short_utterance_floor", "CLASSIFY_SHORT_UTTERANCE_FLOOR")
	v.BindEnv("classify.filler_ratio_max", "CLASSIFY_FILLER_RATIO_MAX")
	v.BindEnv("classify.hesitation_max", "CLASSIFY_HESITATION_MAX")
	v.BindEnv("classify.trust_asr_words", "CLASSIFY_TRUST_ASR_WORDS")

	v.BindEnv("policy.question_budget", "POLICY_QUESTION_BUDGET")
	v.BindEnv("policy.silent_turns_nudge", "POLICY_SILENT_TURNS_NUDGE")
	v.BindEnv("policy.stuck_topic_turns", "POLICY_STUCK_TOPIC_TURNS")
	v.BindEnv("policy.greeting", "POLICY_GREETING")

	v.BindEnv("llm.endpoint", "LLM_ENDPOINT")
	v.BindEnv("llm.api_key", "LLM_API_KEY")
	v.BindEnv("llm.model", "LLM_MODEL")
	v.BindEnv("llm.timeout_ms", "LLM_TIMEOUT_MS")

	v.BindEnv("tts.endpoint", "TTS_ENDPOINT")
	v.BindEnv("tts.voice", "TTS_VOICE")
	v.BindEnv("tts.speaking_rate", "TTS_SPEAKING_RATE")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")

	c.Ingress.TokenSecret = v.GetString("ingress.token_secret")
	c.Ingress.TokenSkewSecs = v.GetInt("ingress.token_skew_secs")

	c.Turn.PauseShort = msDur(v.GetInt("turn.pause_short_ms"))
	c.Turn.PauseMedium = msDur(v.GetInt("turn.pause_medium_ms"))
	c.Turn.PauseLong = msDur(v.GetInt("turn.pause_long_ms"))
	c.Turn.MinListen = msDur(v.GetInt("turn.min_listen_ms"))
	c.Turn.MaxSilence = msDur(v.GetInt("turn.max_silence_ms"))
	c.Turn.FluentStreak = v.GetInt("turn.fluent_streak")
	c.Turn.BargeInEnabled = v.GetBool("turn.barge_in_enabled")

	c.Lexicon.Fillers = splitList(v.GetString("lexicon.fillers"), ",")
	c.Lexicon.Affirmations = splitList(v.GetString("lexicon.affirmations"), ",")
	c.Lexicon.ExitKeywords = splitList(v.GetString("lexicon.exit_keywords"), ",")
	c.Lexicon.ExitPhrases = splitList(v.GetString("lexicon.exit_phrases"), "|")

	c.Classify.ShortUtteranceFloor = v.GetInt("classify.short_utterance_floor")
	c.Classify.FillerRatioMax = v.GetFloat64("classify.filler_ratio_max")
	c.Classify.HesitationMax = v.GetInt("classify.hesitation_max")
	c.Classify.TrustASRWords = v.GetInt("classify.trust_asr_words")

	c.Policy.QuestionBudget = v.GetInt("policy.question_budget")
	c.Policy.SilentTurnsNudge = v.GetInt("policy.silent_turns_nudge")
	c.Policy.StuckTopicTurns = v.GetInt("policy.stuck_topic_turns")
	c.Policy.Greeting = v.GetString("policy.greeting")

	c.Nudges = defaultNudges()

	c.LLM.Endpoint = v.GetString("llm.endpoint")
	c.LLM.APIKey = v.GetString("llm.api_key")
	c.LLM.Model = v.GetString("llm.model")
	c.LLM.Timeout = msDur(v.GetInt("llm.timeout_ms"))

	c.TTS.Endpoint = v.GetString("tts.endpoint")
	c.TTS.Voice = v.GetString("tts.voice")
	c.TTS.SpeakingRate = v.GetFloat64("tts.speaking_rate")

	log.Printf("config loaded: port=%s pause=%s/%s/%s budget=%d",
		c.Server.Port, c.Turn.PauseShort, c.Turn.PauseMedium, c.Turn.PauseLong, c.Policy.QuestionBudget)
	return c
}

// defaultNudges is the built-in topic repertoire in priority order.
func defaultNudges() []NudgeTopic {
	return []NudgeTopic{
		{ID: "family", Prompt: "Tell me about your family. Do you have children or grandchildren?"},
		{ID: "work", Prompt: "What kind of work did you do? Did you enjoy it?"},
		{ID: "childhood", Prompt: "What was your childhood like? Where did you grow up?"},
		{ID: "hobbies", Prompt: "Do you have any hobbies or things you enjoy doing?"},
		{ID: "daily", Prompt: "What does a typical day look like for you?"},
		{ID: "places", Prompt: "Is there a place that's special to you?"},
		{ID: "open", Prompt: "Is there anything you'd like to talk about?"},
	}
}

func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func msDur(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }

func toString(v any) string { return fmt.Sprint(v) }
