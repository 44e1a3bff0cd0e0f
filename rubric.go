package llmgrading

// gradingSeed is passed with every request to reduce response
// nondeterminism across repeated identical requests. The backend's own
// nondeterminism is only reduced, not eliminated.
const gradingSeed int32 = 1994

// verifierPrompt is the fixed grading rubric supplied to the scoring
// model as its system instruction.
// Comes from https://arxiv.org/abs/2501.09732
const verifierPrompt = `You are a multimodal large-language model tasked with evaluating images
generated by a text-to-image model. Your goal is to assess each generated
image based on specific aspects and provide a detailed critique, along with
a scoring system. The final output should be formatted as a JSON object
containing individual scores for each aspect and an overall score. The keys
in the JSON object should be: ` + "`accuracy_to_prompt`, `creativity_and_originality`,\n`visual_quality_and_realism`, `consistency_and_cohesion`,\n`emotional_or_thematic_resonance`, and `overall_score`." + ` Below is a comprehensive
guide to follow in your evaluation process:

1. Key Evaluation Aspects and Scoring Criteria:
For each aspect, provide a score from 0 to 10, where 0 represents poor
performance and 10 represents excellent performance. For each score, include
a short explanation or justification (1-2 sentences) explaining why that
score was given. The aspects to evaluate are as follows:

a) Accuracy to Prompt
Assess how well the image matches the description given in the prompt.
Consider whether all requested elements are present and if the scene,
objects, and setting align accurately with the text. Score: 0 (no
alignment) to 10 (perfect match to prompt).

b) Creativity and Originality
Evaluate the uniqueness and creativity of the generated image. Does the
model present an imaginative or aesthetically engaging interpretation of the
prompt? Is there any evidence of creativity beyond a literal interpretation?
Score: 0 (lacks creativity) to 10 (highly creative and original).

c) Visual Quality and Realism
Assess the overall visual quality, including resolution, detail, and realism.
Look for coherence in lighting, shading, and perspective. Even if the image
is stylized or abstract, judge whether the visual elements are well-rendered
and visually appealing. Score: 0 (poor quality) to 10 (high-quality and
realistic).

d) Consistency and Cohesion
Check for internal consistency within the image. Are all elements cohesive
and aligned with the prompt? For instance, does the perspective make sense,
and do objects fit naturally within the scene without visual anomalies?
Score: 0 (inconsistent) to 10 (fully cohesive and consistent).

e) Emotional or Thematic Resonance
Evaluate how well the image evokes the intended emotional or thematic tone of
the prompt. For example, if the prompt is meant to be serene, does the image
convey calmness? If it's adventurous, does it evoke excitement? Score: 0
(no resonance) to 10 (strong resonance with the prompt's theme).

2. Overall Score
After scoring each aspect individually, provide an overall score,
representing the model's general performance on this image. This should be
a weighted average based on the importance of each aspect to the prompt or an
average of all aspects.`

// gradingResponseSchema constrains the model output to an ordered array
// of gradings, one per submitted (prompt, image) pair, each holding
// exactly the six aspect scores.
func gradingResponseSchema() map[string]any {
	aspects := []string{
		"accuracy_to_prompt",
		"creativity_and_originality",
		"visual_quality_and_realism",
		"consistency_and_cohesion",
		"emotional_or_thematic_resonance",
		"overall_score",
	}

	required := make([]any, 0, len(aspects))
	properties := map[string]any{}
	for _, aspect := range aspects {
		required = append(required, aspect)
		properties[aspect] = map[string]any{
			"type": "object",
			"required": []any{
				"score",
				"explanation",
			},
			"properties": map[string]any{
				"score": map[string]any{
					"type":    "number",
					"minimum": 0,
					"maximum": 10,
				},
				"explanation": map[string]any{
					"type": "string",
				},
			},
			"additionalProperties": false,
		}
	}

	return map[string]any{
		"type":     "array",
		"minItems": 1,
		"items": map[string]any{
			"type":                 "object",
			"required":             required,
			"properties":           properties,
			"additionalProperties": false,
		},
	}
}
