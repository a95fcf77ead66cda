package engine

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"olivia/dialogue/internal/features"
	"olivia/dialogue/internal/fluency"
	"olivia/dialogue/internal/guards"
	"olivia/dialogue/internal/memory"
	"olivia/dialogue/internal/normalize"
	"olivia/dialogue/internal/nudge"
	"olivia/dialogue/internal/policy"
	"olivia/dialogue/internal/repair"
	"olivia/dialogue/internal/turntake"
	"olivia/dialogue/internal/types"
)

// lineGenerationFailed is spoken when the LLM collaborator errors out; the
// turn degrades to a repair rather than going silent.
const lineGenerationFailed = "Sorry, I lost my thread for a moment. Could you say that again?"

// idleWait is the timer period when the machine has no pending deadline,
// i.e. while the system holds the floor.
const idleWait = time.Hour

// runner is the single goroutine that owns one session's turn machine and
// scratch state. Only mem and the llmCancel slot are touched from outside.
type runner struct {
	eng       *Engine
	sessionID string

	machine  *turntake.Machine
	mem      *memory.Memory
	extract  *features.Extractor
	classify *fluency.Classifier
	norm     *normalize.Normalizer
	detect   *repair.Detector
	policy   *policy.Engine

	frags  chan types.TranscriptFragment
	spoken chan *turnOutcome
	quit   chan struct{}
	once   sync.Once

	// current turn scratch, loop goroutine only
	turnIndex   int
	turnStarted time.Time
	texts       []string
	words       []types.Word
	lastSeq     int64

	// pending is set while a respond goroutine owns the floor; no new turn
	// may finalize until its outcome is consumed.
	pending bool
	// resumeAt is set when a barge-in already opened the next turn, so the
	// spoken handler must not start another one.
	resumeAt time.Time

	llmMu     sync.Mutex
	llmCancel context.CancelFunc
}

// turnOutcome carries a finalized turn from snapshot through respond back
// into the loop.
type turnOutcome struct {
	raw        string
	normalized string
	label      fluency.Label
	repairCase repair.Case
	startedAt  time.Time
	listenMs   int64

	// filled in by respond
	act        policy.Act
	topic      string
	systemText string
	decideMs   int64
	speakMs    int64
	endSession bool
}

func newRunner(e *Engine, sessionID string, nudges *nudge.Selector) *runner {
	cfg := e.cfg
	return &runner{
		eng:       e,
		sessionID: sessionID,
		machine: turntake.New(turntake.Config{
			PauseShort:   cfg.Turn.PauseShort,
			PauseMedium:  cfg.Turn.PauseMedium,
			PauseLong:    cfg.Turn.PauseLong,
			MinListen:    cfg.Turn.MinListen,
			MaxSilence:   cfg.Turn.MaxSilence,
			FluentStreak: cfg.Turn.FluentStreak,
			BargeIn:      cfg.Turn.BargeInEnabled,
		}),
		mem:      memory.New(cfg.Policy.QuestionBudget),
		extract:  features.NewExtractor(cfg.Lexicon.Fillers),
		classify: fluency.NewClassifier(fluency.Thresholds{
			ShortUtteranceFloor: cfg.Classify.ShortUtteranceFloor,
			FillerRatioMax:      cfg.Classify.FillerRatioMax,
			HesitationMax:       cfg.Classify.HesitationMax,
		}),
		norm: normalize.New(cfg.Lexicon.Fillers),
		detect: repair.NewDetector(repair.Config{
			ExitKeywords:  cfg.Lexicon.ExitKeywords,
			ExitPhrases:   cfg.Lexicon.ExitPhrases,
			Affirmations:  cfg.Lexicon.Affirmations,
			WordFloor:     cfg.Classify.ShortUtteranceFloor,
			TrustASRWords: cfg.Classify.TrustASRWords,
			MaxWait:       cfg.Turn.MaxSilence,
		}),
		policy: policy.NewEngine(policy.Config{
			SilentTurnsNudge: cfg.Policy.SilentTurnsNudge,
			StuckTopicTurns:  cfg.Policy.StuckTopicTurns,
		}, nudges),
		frags:  make(chan types.TranscriptFragment, 64),
		spoken: make(chan *turnOutcome, 1),
		quit:   make(chan struct{}),
	}
}

func (r *runner) stop() {
	r.once.Do(func() { close(r.quit) })
}

func (r *runner) run() {
	now := time.Now()
	if g := r.eng.cfg.Policy.Greeting; g != "" {
		r.machine.OnTTSStarted()
		if err := r.eng.tts.Speak(context.Background(), r.sessionID, g); err != nil {
			log.Printf("[engine] tts sid=%s: %v", r.sessionID, err)
		}
		r.machine.OnTTSFinished()
		r.mem.NoteSystemUtterance(g)
		now = time.Now()
	}
	r.beginTurn(r.machine.TierFor("", 0), now)
	timer := time.NewTimer(r.wait(now))
	defer timer.Stop()

	for {
		select {
		case <-r.quit:
			r.cancelGeneration()
			return

		case frag := <-r.frags:
			now = time.Now()
			res := r.machine.OnSpeech(now)
			if res.StopTTS {
				// barge-in: the machine just opened the next turn, and
				// whatever respond is doing for the last one is moot.
				r.cancelGeneration()
				go r.eng.tts.Stop(context.Background(), r.sessionID)
				r.resumeAt = now
			}
			if frag.IsFinal && frag.Seq > r.lastSeq && r.machine.State() != turntake.Idle {
				r.lastSeq = frag.Seq
				if t := strings.TrimSpace(frag.Text); t != "" {
					r.texts = append(r.texts, t)
				}
				r.words = append(r.words, frag.Words...)
			}

		case <-timer.C:
			now = time.Now()
			if !r.pending {
				res := r.machine.Tick(now)
				if res.TurnEnded {
					out := r.snapshotTurn(now)
					r.machine.OnTTSStarted()
					r.pending = true
					go r.respond(out)
				}
			}

		case out := <-r.spoken:
			now = time.Now()
			r.pending = false
			r.machine.OnTTSFinished()
			r.completeTurn(out, now)
			if out.endSession {
				r.eng.sessionDone(r.sessionID)
				return
			}
			if r.resumeAt.IsZero() {
				r.beginTurn(r.machine.TierFor(string(out.label), r.mem.FluentStreak()), now)
			} else {
				// the barge-in already opened this turn; keep its clock
				// and buffered speech.
				r.turnIndex++
				r.turnStarted = r.resumeAt
				r.resumeAt = time.Time{}
			}
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(r.wait(now))
	}
}

func (r *runner) wait(now time.Time) time.Duration {
	if r.pending {
		return idleWait
	}
	d := r.machine.NextDeadline()
	if d.IsZero() {
		return idleWait
	}
	w := d.Sub(now)
	if w < 10*time.Millisecond {
		w = 10 * time.Millisecond
	}
	return w
}

func (r *runner) beginTurn(tier turntake.PauseTier, now time.Time) {
	r.turnIndex++
	r.turnStarted = now
	r.machine.StartTurn(tier, now)
}

// snapshotTurn runs the pure per-turn pipeline: features, fluency label,
// normalization, repair case. It drains the scratch buffers so fragments
// arriving after the snapshot accrue to the next turn.
func (r *runner) snapshotTurn(now time.Time) *turnOutcome {
	raw := strings.Join(r.texts, " ")
	words := r.words
	r.texts = nil
	r.words = nil
	feats := r.extract.Extract(raw, words)
	label := r.classify.Classify(feats)
	normText := r.norm.Normalize(raw)
	dec := r.detect.Detect(normText, now.Sub(r.turnStarted))
	return &turnOutcome{
		raw:        raw,
		normalized: normText,
		label:      label,
		repairCase: dec.Case,
		startedAt:  r.turnStarted,
		listenMs:   now.Sub(r.turnStarted).Milliseconds(),
	}
}

// respond runs off-loop: policy decision, optional generation, speech. The
// outcome is handed back on r.spoken.
func (r *runner) respond(out *turnOutcome) {
	decideStart := time.Now()

	intent := repair.IntentNone
	if out.normalized != "" {
		intent = repair.ClassifyRepeatIntent(out.normalized)
	}
	pd := r.policy.Decide(policy.Input{
		Repair:     repair.Decision{Case: out.repairCase},
		Intent:     intent,
		Fluency:    out.label,
		Normalized: out.normalized,
	}, r.mem)

	text := pd.Utterance
	if pd.Act == policy.ActHandoff {
		text = r.generate(pd.Handoff)
	}
	text = guards.ScrubParroting(text)

	out.act = pd.Act
	out.topic = pd.Topic
	out.systemText = text
	out.endSession = pd.EndSession
	out.decideMs = time.Since(decideStart).Milliseconds()

	speakStart := time.Now()
	if text != "" {
		if err := r.eng.tts.Speak(context.Background(), r.sessionID, text); err != nil {
			log.Printf("[engine] tts sid=%s: %v", r.sessionID, err)
		}
	}
	out.speakMs = time.Since(speakStart).Milliseconds()

	select {
	case r.spoken <- out:
	case <-r.quit:
	}
}

// generate calls the LLM under a cancellable context. Barge-in cancels it
// mid-flight via cancelGeneration.
func (r *runner) generate(req *policy.GenerationRequest) string {
	ctx, cancel := context.WithTimeout(context.Background(), r.eng.cfg.LLM.Timeout)
	r.attachGeneration(cancel)
	defer r.detachGeneration()

	msgs := buildMessages(req, r.eng.store.Turns(r.sessionID))
	text, err := r.eng.llm.Complete(ctx, msgs, 120, 0.7)
	if err != nil {
		if ctx.Err() == context.Canceled {
			// barge-in pre-empted the generation; the interrupting turn
			// owns the floor now, so say nothing.
			return ""
		}
		log.Printf("[engine] llm sid=%s: %v", r.sessionID, err)
		return lineGenerationFailed
	}
	return text
}

func (r *runner) attachGeneration(cancel context.CancelFunc) {
	r.llmMu.Lock()
	r.llmCancel = cancel
	r.llmMu.Unlock()
}

func (r *runner) detachGeneration() {
	r.llmMu.Lock()
	if r.llmCancel != nil {
		r.llmCancel()
		r.llmCancel = nil
	}
	r.llmMu.Unlock()
}

func (r *runner) cancelGeneration() {
	r.llmMu.Lock()
	if r.llmCancel != nil {
		r.llmCancel()
	}
	r.llmMu.Unlock()
}

// completeTurn records the finished turn in memory and the store.
func (r *runner) completeTurn(out *turnOutcome, now time.Time) {
	r.mem.ObserveTurn(string(out.label), out.systemText)
	metricTurnSeconds.Observe(now.Sub(out.startedAt).Seconds())

	r.eng.store.AppendTurn(types.TurnSummary{
		SessionID:  r.sessionID,
		TurnIndex:  r.turnIndex,
		RawText:    out.raw,
		Normalized: out.normalized,
		Fluency:    string(out.label),
		RepairCase: string(out.repairCase),
		Act:        string(out.act),
		Topic:      out.topic,
		SystemText: out.systemText,
		ListenMs:   out.listenMs,
		DecideMs:   out.decideMs,
		SpeakMs:    out.speakMs,
		StartedAt:  out.startedAt,
		EndedAt:    now,
	})
	log.Printf("[engine] turn sid=%s idx=%d fluency=%s case=%s act=%s listen=%dms decide=%dms",
		r.sessionID, r.turnIndex, out.label, out.repairCase, out.act, out.listenMs, out.decideMs)
}
