package enrichment

const summarySystemPrompt = `You are a helpful assistant that creates concise summaries of text content.`

const tagsSystemPrompt = `You are a helpful assistant that extracts relevant tags from text. Return only a comma-separated list of tags, no other text.`

const entitiesSystemPrompt = `Extract structured information from the given text and return it as JSON.

Output ONLY valid JSON. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening brace { and end with the closing brace }.
Your output must have exactly these keys, each an array of strings:

{"people": [], "dates": [], "projects": [], "topics": []}

Rules:
- Include only entities explicitly mentioned in the text. Do not hallucinate.
- Use an empty array for any category with no entities.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const speakerSystemPrompt = `You are a meeting transcript analyzer. Format the transcript to identify different speakers. Use Speaker 1, Speaker 2, etc. for each person. Add timestamps if possible. Return as JSON with format: {"transcript": "formatted text", "speakers": ["Speaker 1", "Speaker 2"], "summary": "brief meeting summary"}`
