package llmgrading

import (
	"github.com/zacharyhorvitz/fk-diffusion-steering/api"
)

type MultimodalGenerator = api.MultimodalGenerator
type ModerationProvider = api.ModerationProvider
type ModerationCategory = api.ModerationCategory
type ModerationResult = api.ModerationResult
type Part = api.Part
type GenerateConfig = api.GenerateConfig

var ModerationCategories = api.ModerationCategories
