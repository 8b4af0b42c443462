package services

import (
	"sync"

	"github.com/treyzar/lotto-advisor/pkg/models"
)

// Step is one question of a linear wizard. Slider-driven steps have no
// options; their value is set continuously and pre-seeded on entry.
type Step struct {
	Field   string
	Title   string
	Options []models.StepOption
}

// Wizard is a linear questionnaire state machine. All transitions are no-ops
// once the last step has been confirmed; retreating past the first step
// raises the cancelled flag without touching the answers.
type Wizard struct {
	mu        sync.Mutex
	steps     []Step
	progress  []int
	index     int
	answers   map[string]any
	lastError string
	submitted bool
	cancelled bool

	// onEnter pre-seeds defaults when a step becomes current, so sliders
	// never block Advance with an unset value.
	onEnter func(w *Wizard, field string)
}

const answerRequiredMessage = "Выбери один из вариантов, чтобы продолжить."

func newWizard(steps []Step, progress []int, onEnter func(w *Wizard, field string)) *Wizard {
	w := &Wizard{
		steps:    steps,
		progress: progress,
		answers:  make(map[string]any, len(steps)),
		onEnter:  onEnter,
	}
	if w.onEnter != nil {
		w.onEnter(w, steps[0].Field)
	}
	return w
}

// isUnset mirrors the falsy check of the original wizard: nil, empty string
// and numeric zero all block Advance.
func isUnset(v any) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case float64:
		return value == 0
	case int:
		return value == 0
	default:
		return false
	}
}

// SelectAnswer records the value for a field. Disallowed while submitting;
// clears the validation error.
func (w *Wizard) SelectAnswer(field string, value any) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return
	}
	w.answers[field] = value
	w.lastError = ""
}

// Advance confirms the current step. Returns true when the wizard just
// reached its terminal state.
func (w *Wizard) Advance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return false
	}

	step := w.steps[w.index]
	if isUnset(w.answers[step.Field]) {
		w.lastError = answerRequiredMessage
		return false
	}

	if w.index == len(w.steps)-1 {
		w.submitted = true
		return true
	}

	w.index++
	if w.onEnter != nil {
		w.onEnter(w, w.steps[w.index].Field)
	}
	return false
}

// Retreat steps back. At the first step it flags cancellation for the owning
// collaborator and leaves the answers untouched.
func (w *Wizard) Retreat() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.submitted {
		return
	}
	w.lastError = ""
	if w.index == 0 {
		w.cancelled = true
		return
	}
	w.index--
}

func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

func (w *Wizard) Cancelled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cancelled
}

// Answer returns the recorded value for a field.
func (w *Wizard) Answer(field string) any {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.answers[field]
}

// State snapshots the wizard for the UI boundary.
func (w *Wizard) State() models.QuestionnaireState {
	w.mu.Lock()
	defer w.mu.Unlock()

	step := w.steps[w.index]

	answers := make(map[string]any, len(w.answers))
	for k, v := range w.answers {
		answers[k] = v
	}

	state := models.QuestionnaireState{
		StepIndex:       w.index,
		StepCount:       len(w.steps),
		Field:           step.Field,
		Title:           step.Title,
		Options:         step.Options,
		ProgressPercent: w.progressLocked(),
		Submitted:       w.submitted,
		Answers:         answers,
	}
	if w.lastError != "" {
		msg := w.lastError
		state.Error = &msg
	}
	return state
}

// Progress is a pure function of the step index: a fixed per-step lookup
// table, like the original progress bars.
func (w *Wizard) Progress() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.progressLocked()
}

func (w *Wizard) progressLocked() int {
	if w.index < len(w.progress) {
		return w.progress[w.index]
	}
	return w.progress[len(w.progress)-1]
}

// Primary questionnaire fields.
const (
	FieldStyle      = "style"
	FieldFrequency  = "frequency"
	FieldTicketCost = "ticket_cost"
	FieldWinRate    = "win_rate"
	FieldWinSize    = "win_size"
)

// Refinement questionnaire fields.
const (
	FieldPricePriority = "price_priority"
	FieldRiskFeeling   = "risk_feeling"
	FieldPlayRhythm    = "play_rhythm"
)

// Slider defaults pre-seeded when the step is first entered.
const (
	defaultWinRateAnswer = 40.0
	defaultWinSizeAnswer = (100_000.0 + 500_000.0) / 2
)

// NewPrimaryQuestionnaire builds the 5-step profile wizard.
func NewPrimaryQuestionnaire() *Wizard {
	steps := []Step{
		{
			Field: FieldStyle,
			Title: "Какой стиль игры тебе ближе?",
			Options: []models.StepOption{
				{Value: models.StyleInstant, Label: "Моментальные розыгрыши"},
				{Value: models.StyleTirage, Label: "Тиражные розыгрыши"},
				{Value: models.StyleAny, Label: "Любой розыгрыш"},
			},
		},
		{
			Field: FieldFrequency,
			Title: "Как часто хочешь участвовать?",
			Options: []models.StepOption{
				{Value: 1.0, Label: "Каждый день"},
				{Value: 1.0 / 7.0, Label: "Раз в неделю"},
				{Value: 1.0 / 30.0, Label: "Раз в месяц"},
			},
		},
		{
			Field: FieldTicketCost,
			Title: "Какая стоимость билета комфортна?",
			Options: []models.StepOption{
				{Value: 150.0, Label: "100–200 ₽"},
				{Value: 350.0, Label: "200–500 ₽"},
				{Value: 750.0, Label: "500–1000 ₽"},
			},
		},
		{
			Field: FieldWinRate,
			Title: "Как часто ты хочешь примерно выигрывать?",
		},
		{
			Field: FieldWinSize,
			Title: "Какой размер выигрыша тебе комфортнее?",
		},
	}

	seed := func(w *Wizard, field string) {
		switch field {
		case FieldWinRate:
			if w.answers[FieldWinRate] == nil {
				w.answers[FieldWinRate] = defaultWinRateAnswer
			}
		case FieldWinSize:
			if w.answers[FieldWinSize] == nil {
				w.answers[FieldWinSize] = defaultWinSizeAnswer
			}
		}
	}

	return newWizard(steps, []int{0, 15, 40, 70, 100}, seed)
}

// NewRefinementQuestionnaire builds the 3-step weight wizard.
func NewRefinementQuestionnaire() *Wizard {
	steps := []Step{
		{
			Field: FieldPricePriority,
			Title: "Что тебе важнее всего по деньгам?",
			Options: []models.StepOption{
				{Value: models.PriceEconomy, Label: "Минимальный чек — главное, хочу играть подешевле"},
				{Value: models.PriceBalance, Label: "Баланс: не самое дешёвое, но и не дорого"},
				{Value: models.PriceDontCare, Label: "Цена не так важна, главное впечатления"},
			},
		},
		{
			Field: FieldRiskFeeling,
			Title: "Как ты чувствуешь себя с риском именно сейчас?",
			Options: []models.StepOption{
				{Value: models.RiskAvoid, Label: "Лучше спокойнее, без резких скачков"},
				{Value: models.RiskNeutral, Label: "Нормально отношусь, главное интерес"},
				{Value: models.RiskSeek, Label: "Хочу рискнуть ради шанса на что-то большое"},
			},
		},
		{
			Field: FieldPlayRhythm,
			Title: "Как ты планируешь играть в ближайшее время?",
			Options: []models.StepOption{
				{Value: models.RhythmOften, Label: "Часто, несколько раз в неделю или больше"},
				{Value: models.RhythmSometimes, Label: "Время от времени, без строгого графика"},
				{Value: models.RhythmRare, Label: "Редко, иногда по настроению"},
			},
		},
	}

	return newWizard(steps, []int{0, 50, 100}, nil)
}

// ProfileFromWizard reads the finalized primary answers into a Profile.
func ProfileFromWizard(w *Wizard) models.Profile {
	var p models.Profile
	if v, ok := w.Answer(FieldStyle).(string); ok && v != "" {
		p.Style = &v
	}
	if v, ok := w.Answer(FieldFrequency).(float64); ok {
		p.Frequency = &v
	}
	if v, ok := w.Answer(FieldTicketCost).(float64); ok {
		p.TicketCost = &v
	}
	if v, ok := w.Answer(FieldWinRate).(float64); ok {
		p.WinRate = &v
	}
	if v, ok := w.Answer(FieldWinSize).(float64); ok {
		p.WinSize = &v
	}
	return p
}

// AnswersFromWizard reads the finalized refinement answers.
func AnswersFromWizard(w *Wizard) models.RefinementAnswers {
	var a models.RefinementAnswers
	if v, ok := w.Answer(FieldPricePriority).(string); ok && v != "" {
		a.PricePriority = &v
	}
	if v, ok := w.Answer(FieldRiskFeeling).(string); ok && v != "" {
		a.RiskFeeling = &v
	}
	if v, ok := w.Answer(FieldPlayRhythm).(string); ok && v != "" {
		a.PlayRhythm = &v
	}
	return a
}
