package assembly

// ContentType is the payload shape a module's questions carry.
type ContentType string

const (
	ContentMCQ       ContentType = "mcq"
	ContentSentence  ContentType = "sentence"
	ContentTechnical ContentType = "technical"
)

// Pool multipliers: the sampler fetches multiplier×target candidates before
// drawing. Technical modules get a larger draw (wider per-topic variance).
// Tunables, not contracts.
const (
	defaultPoolMultiplier   = 2
	technicalPoolMultiplier = 3
)

// Profile describes how one module's questions are sampled and validated.
type Profile struct {
	ContentType    ContentType
	RequiresAudio  bool
	PoolMultiplier int
}

// ---- Registry ----

var profiles = map[string]Profile{}

// RegisterProfile associates a module ID with its profile. Built-in modules
// register below; deployments with custom modules call this at startup.
func RegisterProfile(moduleID string, p Profile) {
	if moduleID == "" {
		return
	}
	if p.PoolMultiplier < 1 {
		p.PoolMultiplier = defaultPoolMultiplier
	}
	profiles[moduleID] = p
}

// ProfileFor returns the module's profile, falling back to a conservative
// MCQ profile for module IDs nothing has registered.
func ProfileFor(moduleID string) Profile {
	if p, ok := profiles[moduleID]; ok {
		return p
	}
	return Profile{ContentType: ContentMCQ, PoolMultiplier: defaultPoolMultiplier}
}

func init() {
	RegisterProfile("READING", Profile{ContentType: ContentMCQ, PoolMultiplier: defaultPoolMultiplier})
	RegisterProfile("GRAMMAR", Profile{ContentType: ContentMCQ, PoolMultiplier: defaultPoolMultiplier})
	RegisterProfile("VOCABULARY", Profile{ContentType: ContentMCQ, PoolMultiplier: defaultPoolMultiplier})
	RegisterProfile("LISTENING", Profile{ContentType: ContentSentence, RequiresAudio: true, PoolMultiplier: defaultPoolMultiplier})
	RegisterProfile("SPEAKING", Profile{ContentType: ContentSentence, PoolMultiplier: defaultPoolMultiplier})
	RegisterProfile("CODING", Profile{ContentType: ContentTechnical, PoolMultiplier: technicalPoolMultiplier})
	RegisterProfile("SQL", Profile{ContentType: ContentTechnical, PoolMultiplier: technicalPoolMultiplier})
}
