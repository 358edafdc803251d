// Package command turns utterances into structured commands.
//
// Matching is an ordered list of rules per family; the first rule that
// matches wins. Nothing here returns an error: an utterance that no rule
// recognises is a CommandNone, which callers route to free-form dialogue.
package command

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/hammamikhairi/cookvoice/internal/domain"
	"github.com/hammamikhairi/cookvoice/internal/logger"
	"github.com/hammamikhairi/cookvoice/internal/metrics"
	"github.com/hammamikhairi/cookvoice/internal/numwords"
)

// rule pairs a pattern with the function that builds a command from its
// named groups. build may refuse the match, in which case the next rule runs.
type rule struct {
	re    *regexp.Regexp
	build func(g groups) (domain.Command, bool)
}

type groups map[string]string

func (r rule) apply(s string) (domain.Command, bool) {
	m := r.re.FindStringSubmatch(s)
	if m == nil {
		return domain.Command{}, false
	}
	g := make(groups, len(m))
	for i, name := range r.re.SubexpNames() {
		if name != "" && i < len(m) {
			g[name] = strings.TrimSpace(m[i])
		}
	}
	return r.build(g)
}

func firstMatch(rules []rule, s string) (domain.Command, bool) {
	for _, r := range rules {
		if cmd, ok := r.apply(s); ok {
			return cmd, true
		}
	}
	return domain.Command{}, false
}

// Classifier recognises timer and navigation commands.
type Classifier struct {
	log     *logger.Logger
	metrics *metrics.Commands

	questions []*regexp.Regexp
	stop      []rule
	check     []rule
	start     []rule
	read      []rule
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithMetrics counts every Classify result by kind.
func WithMetrics(m *metrics.Commands) Option {
	return func(c *Classifier) {
		c.metrics = m
	}
}

// New builds a classifier with the default rule set.
func New(log *logger.Logger, opts ...Option) *Classifier {
	c := &Classifier{
		log:       log,
		questions: questionRules,
		stop:      stopRules(),
		check:     checkRules(),
		start:     startRules(),
		read:      readRules(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify tries the timer rules, then the navigation rules.
func (c *Classifier) Classify(utterance string) domain.Command {
	cmd := c.ParseTimer(utterance)
	if !cmd.Matched() {
		cmd = c.ParseRead(utterance)
	}
	c.metrics.Observe(cmd.Kind.String())
	return cmd
}

// ParseTimer recognises start, stop and check timer commands. Questions about
// cooking durations ("how long do I bake it") are never timer commands.
func (c *Classifier) ParseTimer(utterance string) domain.Command {
	s := normalize(utterance)
	if s == "" {
		return domain.Command{}
	}

	if c.isCookingQuestion(s) {
		c.log.Debug("cooking question, not a timer command: %q", s)
		return domain.Command{}
	}

	s = stripPolite(s)
	for _, family := range [][]rule{c.stop, c.check, c.start} {
		if cmd, ok := firstMatch(family, s); ok {
			c.log.Debug("timer command %s from %q", cmd.Kind, s)
			return cmd
		}
	}
	return domain.Command{}
}

// ParseRead recognises recipe navigation: full read, ingredients, next,
// previous/repeat, jump to step, and where-am-I.
func (c *Classifier) ParseRead(utterance string) domain.Command {
	s := normalize(utterance)
	if s == "" {
		return domain.Command{}
	}
	s = stripFiller(s)

	if cmd, ok := firstMatch(c.read, s); ok {
		c.log.Debug("read command %s from %q", cmd.Kind, s)
		return cmd
	}
	return domain.Command{}
}

// timeLeft marks "how much time is left" phrasing, which asks about a timer.
var timeLeft = regexp.MustCompile(`\b(?:left|remaining|to go)\b`)

func (c *Classifier) isCookingQuestion(s string) bool {
	if timeLeft.MatchString(s) {
		return false
	}
	for _, re := range c.questions {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

// ── Normalisation ──

var (
	spaces        = regexp.MustCompile(`\s+`)
	politePrefix  = regexp.MustCompile(`^(?:(?:hey|hi|ok|okay|alright|so|um|uh|please)[, ]+|(?:can|could|would|will) you(?: please)? |i want you to |i'?d like (?:you )?to |i need (?:you )?to |let'?s |go ahead and )`)
	politeSuffix  = regexp.MustCompile(`[, ]+(?:please|thanks|thank you|for me)$`)
	fillerPrefix  = regexp.MustCompile(`^(?:ok|okay|alright|all right|right|so|um|uh|hey|great|cool|good|perfect|yes|yeah|nice)[, ]+`)
	trailingPunct = ".,!?;:"
)

// normalize lowercases, unifies apostrophes, drops trailing punctuation and
// collapses whitespace.
func normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("’", "'", "‘", "'", "“", "", "”", "", "\"", "").Replace(s)
	s = spaces.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.TrimRight(s, trailingPunct)
	s = strings.TrimLeft(s, trailingPunct+" ")
	return strings.TrimSpace(s)
}

// stripPolite removes courtesy wrappers so "could you please set a timer for
// ten minutes" reads as "set a timer for ten minutes".
func stripPolite(s string) string {
	for {
		next := politePrefix.ReplaceAllString(s, "")
		next = politeSuffix.ReplaceAllString(next, "")
		next = strings.TrimSpace(next)
		if next == s || next == "" {
			return s
		}
		s = next
	}
}

// stripFiller removes leading acknowledgements ("ok, what's next") and then
// courtesy wrappers. A lone filler word is kept since "ok" means "next".
func stripFiller(s string) string {
	for {
		next := strings.TrimSpace(fillerPrefix.ReplaceAllString(s, ""))
		if next == s || next == "" {
			break
		}
		s = next
	}
	return stripPolite(s)
}

// ── Helpers ──

var leadingArticle = regexp.MustCompile(`^(?:the|a|an|my|our|that|this|those|these|some)\s+`)

// cleanName strips articles and a trailing "timer" from a spoken name.
func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = leadingArticle.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, " timer")
	s = strings.TrimSuffix(s, " timers")
	return strings.TrimSpace(s)
}

// timerName is cleanName with the default applied.
func timerName(s string) string {
	if n := cleanName(s); n != "" && n != "timer" {
		return n
	}
	return domain.DefaultTimerName
}

// amount parses a spoken quantity: digits (decimals allowed), number words,
// or "a"/"an" as in "an hour".
func amount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if s == "a" || s == "an" {
		return 1, true
	}
	if isNumeric(s) {
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	if n, ok := numwords.Parse(s); ok {
		return float64(n), true
	}
	return 0, false
}

var numeral = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

func isNumeric(s string) bool {
	return numeral.MatchString(strings.TrimSpace(s))
}

// splitMinutesName decides which of two captures is the duration and which
// the name. A literal numeral wins outright; otherwise a is probed before b,
// so a name that happens to be a homophone ("for") does not steal the slot.
// Minutes must come out positive.
func splitMinutesName(a, b, unit string) (minutes int, name string, ok bool) {
	var value float64
	switch {
	case isNumeric(a):
		value, _ = amount(a)
		name = b
	case isNumeric(b):
		value, _ = amount(b)
		name = a
	default:
		if v, ok := amount(a); ok {
			value, name = v, b
		} else if v, ok := amount(b); ok {
			value, name = v, a
		} else {
			return 0, "", false
		}
	}

	// "five to ten minutes": the name slot caught the low end of a range.
	if low, ok := numwords.Parse(name); ok {
		value = math.Max(value, float64(low))
		name = ""
	}

	if strings.HasPrefix(unit, "h") {
		value *= 60
	}
	minutes = int(math.Round(value))
	if minutes <= 0 {
		return 0, "", false
	}
	return minutes, timerName(name), true
}

func start(minutes int, name string) domain.Command {
	return domain.Command{Kind: domain.CommandStartTimer, Minutes: minutes, Name: name}
}

// ── Cooking questions ──

var questionRules = []*regexp.Regexp{
	regexp.MustCompile(`^(?:how long|how many (?:minutes|mins|hours)|how much time)\b.*\b(?:cook|bak|roast|fr[yi]|grill|boil|simmer|saut[eé]|brais|steam|poach|broil|sear|toast|marinat|chill|proof)\w*`),
	regexp.MustCompile(`^(?:how long|how many (?:minutes|mins|hours)|how much time) (?:do|does|did|should|shall|will|would|can|could|must|is it|are|to)\b.*\b(?:take|need|leave|keep|put)\w*`),
	regexp.MustCompile(`^(?:is|are) (?:it|they|the \w+) (?:done|ready|cooked)\b`),
	regexp.MustCompile(`^when (?:is|are|will|should) .*\b(?:done|ready|cooked)\b`),
}

// ── Stop ──

const stopVerb = `(?:stop|cancel|end|kill|clear|dismiss|delete|remove|turn off|switch off|shut off|silence)`

func stopRules() []rule {
	stopAll := func(groups) (domain.Command, bool) {
		return domain.Command{Kind: domain.CommandStopTimer}, true
	}
	return []rule{
		{regexp.MustCompile(`^(?:ok|okay|stop|done|got it|thanks|thank you|dismiss|quiet|silence|hush|shut up|enough|stop it|alright)$`), stopAll},
		{regexp.MustCompile(`^` + stopVerb + `(?: the| that| this| my| all(?: the)?| all my)? (?:timer|alarm|beeping|ringing)s?$`), stopAll},
		{regexp.MustCompile(`^(?:timer|alarm)s? (?:off|stop)$`), stopAll},
		{regexp.MustCompile(`^` + stopVerb + ` (?:it|that)$`), stopAll},
		{regexp.MustCompile(`^` + stopVerb + ` (?:the |my |that )?(?P<name>.+?) (?:timer|alarm)$`), func(g groups) (domain.Command, bool) {
			name := cleanName(g["name"])
			if name == "" {
				return domain.Command{}, false
			}
			return domain.Command{Kind: domain.CommandStopTimer, Name: name}, true
		}},
		{regexp.MustCompile(`^` + stopVerb + ` (?:the |my )?(?:timer|alarm) (?:for|on) (?:the |my )?(?P<name>.+)$`), func(g groups) (domain.Command, bool) {
			name := cleanName(g["name"])
			if name == "" {
				return domain.Command{}, false
			}
			return domain.Command{Kind: domain.CommandStopTimer, Name: name}, true
		}},
	}
}

// ── Check ──

// cookingPhrase matches names that are really a cooking clause ("baking the
// bread") rather than a timer name.
var cookingPhrase = regexp.MustCompile(`^(?:to |for |i |we )?(?:cook|bak|roast|fr[yi]|grill|boil|simmer|saut[eé]|brais|steam|poach|broil|sear|toast)\w* (?:the|it|this|that|them|my|a|an|some)\b`)

func checkRules() []rule {
	checkAll := func(groups) (domain.Command, bool) {
		return domain.Command{Kind: domain.CommandCheckTimer}, true
	}
	named := func(g groups) (domain.Command, bool) {
		name := cleanName(g["name"])
		if name == "" || name == "timer" {
			return domain.Command{Kind: domain.CommandCheckTimer}, true
		}
		if cookingPhrase.MatchString(name) || cookingPhrase.MatchString(g["name"]) {
			return domain.Command{}, false
		}
		return domain.Command{Kind: domain.CommandCheckTimer, Name: name}, true
	}
	return []rule{
		{regexp.MustCompile(`^(?:check|show|see|read|list)(?: on)?(?: the| my| all(?: the)?| all my)? (?:timer|timers)(?: status)?$`), checkAll},
		{regexp.MustCompile(`^(?:timer|timers) (?:status|check|left)$`), checkAll},
		{regexp.MustCompile(`^(?:status of|what'?s|what is|what are) (?:the |my )?timers?(?: status| at| saying| doing)?$`), checkAll},
		{regexp.MustCompile(`^how(?:'?s| is| are)(?: the| my)? timers?(?: doing| going| looking)?$`), checkAll},
		{regexp.MustCompile(`^how (?:much time|much longer|long)(?: is| do i have| do we have| have i got)?(?: left| remaining| to go)?$`), checkAll},
		{regexp.MustCompile(`^how (?:much time|much longer|long)(?: is| do i have| do we have)? (?:left|remaining|to go)(?: on| for)(?: the| my)? timers?$`), checkAll},
		{regexp.MustCompile(`^(?:check on|check)(?: the| my)? (?P<name>.+?) timers?$`), named},
		{regexp.MustCompile(`^how(?:'?s| is)(?: the| my)? (?P<name>.+?) timers?(?: doing| going| looking)?$`), named},
		{regexp.MustCompile(`^how (?:much time|much longer|long)(?: is| do i have| do we have)?(?: left| remaining| to go)? (?:on|for) (?P<name>.+)$`), named},
	}
}

// ── Start ──

const (
	setVerb     = `(?:start|set|create|make|put on|add|begin|run)(?: me| up)?(?: a| an| the| my| another| one more)?`
	qtyPattern  = `(?P<a>\d+(?:\.\d+)?|[a-z]+(?:[ -][a-z]+)?)`
	unitPattern = `(?P<unit>minutes?|mins?|hours?|hrs?)`
	article     = `(?:the |my |a |an |some )?`
)

// commandWords catches a name capture that swallowed the verb ("set a").
var commandWords = regexp.MustCompile(`^(?:start|set|create|make|put|add|begin|run|remind|tell|time)\b`)

// trailingAmount splits "the pasta for ten" into the item and the amount.
var trailingAmount = regexp.MustCompile(`^(.+?) (?:for|in) ([a-z0-9]+(?:[ -][a-z]+)?)$`)

// mentionsUnit is true when the utterance carries an explicit duration unit.
var mentionsUnit = regexp.MustCompile(`\b(?:minutes?|mins?|hours?|hrs?|seconds?|secs?)\b`)

func startRules() []rule {
	explicit := func(g groups) (domain.Command, bool) {
		minutes, name, ok := splitMinutesName(g["a"], g["b"], g["unit"])
		if !ok {
			return domain.Command{}, false
		}
		if commandWords.MatchString(name) {
			name = domain.DefaultTimerName
		}
		return start(minutes, name), true
	}

	rules := []rule{
		// "set a timer for step 3"
		{regexp.MustCompile(`^` + setVerb + ` timer (?:for|on) (?:the )?step (?:number )?(?P<n>[a-z0-9]+(?:[ -][a-z]+)?)$`), func(g groups) (domain.Command, bool) {
			n, ok := numwords.Parse(g["n"])
			if !ok || n < 1 {
				return domain.Command{}, false
			}
			return domain.Command{Kind: domain.CommandStartTimer, StepNumber: n}, true
		}},
		{regexp.MustCompile(`^` + setVerb + ` step (?:number )?(?P<n>[a-z0-9]+(?:[ -][a-z]+)?) timer$`), func(g groups) (domain.Command, bool) {
			n, ok := numwords.Parse(g["n"])
			if !ok || n < 1 {
				return domain.Command{}, false
			}
			return domain.Command{Kind: domain.CommandStartTimer, StepNumber: n}, true
		}},
		// "set a timer", no duration anywhere
		{regexp.MustCompile(`^` + setVerb + ` (?:new )?timer$`), func(groups) (domain.Command, bool) {
			return domain.Command{Kind: domain.CommandStartTimer, Name: domain.DefaultTimerName}, true
		}},
		// "set a timer for the pasta", duration left to the recipe
		{regexp.MustCompile(`^` + setVerb + ` timer (?:for|on) (?P<item>.+)$`), func(g groups) (domain.Command, bool) {
			if mentionsUnit.MatchString(g["item"]) {
				return domain.Command{}, false
			}
			if n, ok := numwords.Parse(g["item"]); ok {
				if n <= 0 {
					return domain.Command{}, false
				}
				return start(n, domain.DefaultTimerName), true
			}
			// "for the pasta for ten": a unitless trailing number is minutes.
			if m := trailingAmount.FindStringSubmatch(g["item"]); m != nil {
				if n, ok := numwords.Parse(m[2]); ok && n > 0 {
					return start(n, timerName(m[1])), true
				}
			}
			item := cleanName(g["item"])
			if item == "" {
				return domain.Command{}, false
			}
			return domain.Command{Kind: domain.CommandStartTimer, ItemName: item, Name: item}, true
		}},
	}

	// Explicit durations. Order matters: the shapes with a trailing name
	// come before their shorter prefixes.
	shapes := []string{
		// set a timer for the lamb for 10 minutes
		`^` + setVerb + ` timer (?:for|on) ` + article + `(?P<b>.+?) (?:for|to|of) ` + qtyPattern + ` ` + unitPattern + `$`,
		// set a timer for 10 minutes for the pasta
		`^` + setVerb + ` timer (?:for|of) ` + qtyPattern + ` ` + unitPattern + ` (?:for|on|called|named) ` + article + `(?P<b>.+?)$`,
		// set a timer for 10 minutes
		`^` + setVerb + ` timer (?:for|of|in|to)? ?` + qtyPattern + ` ` + unitPattern + `$`,
		// set a 10 minute timer (for the rice)
		`^` + setVerb + ` ` + qtyPattern + `[ -]` + unitPattern + ` timer(?: (?:for|on|called|named) ` + article + `(?P<b>.+?))?$`,
		// 10 minute timer for pasta
		`^` + qtyPattern + `[ -]` + unitPattern + ` timer(?: (?:for|on) ` + article + `(?P<b>.+?))?$`,
		// set pasta timer for 15 minutes
		`^(?:` + setVerb + ` )?` + article + `(?P<b>.+?) timer (?:for|to|at|in) ` + qtyPattern + ` ` + unitPattern + `$`,
		// timer for 10 minutes (for the eggs)
		`^timer (?:for )?` + qtyPattern + ` ` + unitPattern + `(?: (?:for|on) ` + article + `(?P<b>.+?))?$`,
		// remind me in 10 minutes (to flip the steak)
		`^(?:remind|tell|alert|ping|buzz|call|wake) me in ` + qtyPattern + ` ` + unitPattern + `(?: (?:to|about|for) ` + article + `(?P<b>.+?))?$`,
		// in 10 minutes remind me
		`^in ` + qtyPattern + ` ` + unitPattern + ` (?:remind|tell|alert|ping) me(?: (?:to|about) ` + article + `(?P<b>.+?))?$`,
		// 10 minutes for the chicken
		`^` + qtyPattern + ` ` + unitPattern + ` (?:for|on) ` + article + `(?P<b>.+?)$`,
		// count down 10 minutes
		`^(?:count ?down|countdown)(?: from| for)? ` + qtyPattern + ` ` + unitPattern + `$`,
		// set 10 minutes
		`^(?:start|set|give me|time|wait) (?:for )?` + qtyPattern + ` ` + unitPattern + `$`,
		// time the pasta for 10 minutes
		`^time ` + article + `(?P<b>.+?) (?:for|to) ` + qtyPattern + ` ` + unitPattern + `$`,
	}
	for _, shape := range shapes {
		rules = append(rules, rule{regexp.MustCompile(shape), explicit})
	}
	return rules
}

// ── Navigation ──

var ordinals = map[string]int{
	"first":    1,
	"second":   2,
	"third":    3,
	"fourth":   4,
	"fifth":    5,
	"sixth":    6,
	"seventh":  7,
	"eighth":   8,
	"ninth":    9,
	"tenth":    10,
	"eleventh": 11,
	"twelfth":  12,
}

// stepNumber resolves a spoken step reference: digits, number words,
// ordinals, or "1st" style.
func stepNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, ok := ordinals[s]; ok {
		return n, true
	}
	for _, suffix := range []string{"st", "nd", "rd", "th"} {
		if strings.HasSuffix(s, suffix) && isNumeric(strings.TrimSuffix(s, suffix)) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}
	n, ok := numwords.Parse(s)
	if !ok || n < 1 {
		return 0, false
	}
	return n, true
}

func readRules() []rule {
	kind := func(k domain.CommandKind) func(groups) (domain.Command, bool) {
		return func(groups) (domain.Command, bool) {
			return domain.Command{Kind: k}, true
		}
	}
	jump := func(g groups) (domain.Command, bool) {
		n, ok := stepNumber(g["n"])
		if !ok {
			return domain.Command{}, false
		}
		return domain.Command{Kind: domain.CommandReadStep, StepIndex: n - 1, HasStep: true}, true
	}

	var rules []rule
	add := func(k domain.CommandKind, patterns ...string) {
		for _, p := range patterns {
			rules = append(rules, rule{regexp.MustCompile(p), kind(k)})
		}
	}

	// Full recipe.
	add(domain.CommandReadFull,
		`^(?:read|tell|give|say|show|walk)(?: me| us)?(?: through)? (?:the |this )?(?:whole|full|entire|complete)(?: thing| recipe)?$`,
		`^(?:read|tell|give|show|walk)(?: me| us)?(?: through)? (?:the |this )?(?:whole |full |entire |complete )?recipe(?: again| from the (?:start|beginning|top))?$`,
		`^(?:read|go through|list|tell me|what are)(?: me)? (?:all )?(?:the |of the )?(?:steps|instructions|directions|method)$`,
		`^(?:read|go through) (?:it all|everything|all of it)(?: again)?$`,
		`^(?:full|whole|entire) recipe$`,
	)

	// Ingredients.
	add(domain.CommandReadIngredients,
		`^(?:the )?ingredients?(?: list)?$`,
		`^(?:what|which|read|list|tell me|give me|show me|say)\b.*\bingredients?\b`,
		`^what (?:else )?(?:do|will|would|should) (?:i|we) need(?: for (?:this|the|that) (?:step|recipe|dish|one))?$`,
		`^what (?:do|does) (?:this|the|that) (?:step|recipe|dish) (?:need|use|call for|require)$`,
		`^what goes (?:in|into) (?:it|this|the \w+)$`,
		`^what(?:'?s| is) in (?:it|this|the \w+)$`,
		`^(?:shopping|grocery) list$`,
	)

	// Next step.
	add(domain.CommandNextStep,
		`^(?:next|next step|next one|continue|go on|keep going|carry on|move on|moving on|proceed|go ahead|onward|forward|skip|and then|then what|now what|what now|what next|and now|after that|ok|okay|done|ready|finished|got it|alright|all right|yes|yep|yeah|sure|go)$`,
		`^(?:what'?s|what is|what comes|whats|tell me|read|give me|go to|go|move to|move on to|skip to|on to|onto)(?: the)? next(?: step| one| bit| thing)?$`,
		`^what(?:'?s| is) (?:after that|after this|the next step)$`,
		`^what (?:do|should|shall) (?:i|we) do (?:next|now)$`,
		`^what(?:'?s| is) the next (?:step|thing|bit)$`,
		`^(?:i'?m|we'?re|i am|we are|that'?s|it'?s|that is|it is|all) (?:done|ready|finished|set)(?: with (?:that|this|it|the step|this step))?$`,
		`^(?:i'?ve|we'?ve|i have|we have) (?:done|finished)(?: (?:that|this|it))?$`,
		`^next (?:step|one)?$`,
	)

	// Previous step.
	add(domain.CommandPreviousStep,
		`^(?:back|go back|previous|previous step|previous one|step back|back up|rewind|last step|go back one|back one|the step before)$`,
		`^(?:go|move|take me|jump|skip)(?: back)? to the (?:previous|last|prior) (?:step|one)$`,
		`^go back (?:a|one) step$`,
		`^what was the (?:previous|last|prior) step$`,
		`^(?:read|what was)(?: me)? the step before(?: that| this)?$`,
	)

	// Repeat is "read the current step again".
	add(domain.CommandReadStep,
		`^(?:repeat|repeat that|repeat it|repeat (?:the |this )?step|say (?:that|it) again|again|one more time|come again|what|what was that|pardon|pardon me|sorry|sorry what|excuse me|huh|what did you say|i didn'?t (?:catch|hear|get) that|read (?:that|it) again|say again)$`,
	)

	// Jump to an explicit step.
	rules = append(rules,
		rule{regexp.MustCompile(`^(?:(?:go|jump|skip|move|take me|back) to |read(?: me)? |what(?:'?s| is) |tell me |show me |start (?:at|from) )?(?:the )?step (?:number )?(?P<n>[a-z0-9]+(?:[ -][a-z]+)?)$`), jump},
		rule{regexp.MustCompile(`^(?:(?:go|jump|skip|move|take me|back) to |read(?: me)? |what(?:'?s| is) |tell me |show me |start (?:at|from) )?the (?P<n>[a-z0-9]+) step$`), jump},
		rule{regexp.MustCompile(`^(?:start over|start again|from the (?:top|start|beginning)|back to the (?:start|beginning)|restart|go to the (?:start|beginning)|(?:start|begin) from the (?:top|start|beginning))$`), func(groups) (domain.Command, bool) {
			return domain.Command{Kind: domain.CommandReadStep, StepIndex: 0, HasStep: true}, true
		}},
	)

	// Current step.
	add(domain.CommandReadStep,
		`^(?:where am i|where are we|where was i|where were we|where'?re we at|where am i at)$`,
		`^(?:what|which) step (?:is this|is it|am i on|are we on|am i at|are we at|is that)$`,
		`^(?:what'?s|what is|read|say|tell me|repeat)(?: me)?(?: the| this)? (?:current|this) step$`,
		`^(?:current step|this step|what step|the current step|what am i doing|what was i doing)$`,
		`^(?:read|say)(?: me)? (?:the|this) step$`,
	)

	return rules
}
