// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package commands provides the concrete Command implementations that make
// up the recommendation pipeline. This file defines the prompt composer: it
// renders the candidate list and the user's preferences into the instruction
// block sent to the generative model.
//
// The OUTPUT FORMAT section of the template is a contract with the
// formatter command: the numbered-line shape, the bold title markers, and
// the "]: " separator before the explanation are exactly what the formatter
// parses. Changing the template means changing the formatter's grammar.
package commands

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jaycherian/gcp-go-movie-recs/internal/core/cor"
	"github.com/jaycherian/gcp-go-movie-recs/internal/core/model"
)

// DefaultRecommendationPrompt is the compiled-in prompt template, used when
// the configuration does not carry an override.
const DefaultRecommendationPrompt = `You are an expert AI movie critic named 'Picky Cinephile'. Your task is to provide exactly 3 personalized movie recommendations that satisfy the user's specific genre and filter requests.

**GIVEN DATA SOURCE:**
The movies listed below are sourced from The Movie Database (TMDb). You must ONLY recommend films from this list.

**USER PREFERENCES:**
Genre: {{.GENRE}}
Specific Filter/Mood: {{.FILTER}}

**PROVIDED MOVIE LIST (TMDb Data - Analyze the Overview, Title, and Rating to match the filter):**
---
{{.MOVIES}}
---

**RECOMMENDATION RULES:**
1.  Suggest **exactly 3 movies** from the provided list, spelling each title exactly as it appears in the list.
2.  Each suggestion must perfectly satisfy the **Genre** ({{.GENRE}}) and the **Specific Filter/Mood** ({{.FILTER}}).
3.  Focus the selection on movies that contain {{.FILTER}} elements (e.g., strong plot twists, positive mood, emotional depth, etc.) as described in their overview.
4.  Output MUST STRICTLY follow the OUTPUT FORMAT. Do NOT include the Poster URL in the text output, we will use it separately.

**OUTPUT FORMAT:**

Movies:
1.  **[Movie Title]** ([Year]) - [Genre] | Rating: [Rating]: [Brief Explanation focusing on the Specific Filter/Mood]
2.  **[Movie Title]** ([Year]) - [Genre] | Rating: [Rating]: [Brief Explanation focusing on the Specific Filter/Mood]
3.  **[Movie Title]** ([Year]) - [Genre] | Rating: [Rating]: [Brief Explanation focusing on the Specific Filter/Mood]
`

// PromptBuilder is a command that renders the recommendation prompt from
// the candidate list and the user's genre and filter text.
type PromptBuilder struct {
	cor.BaseCommand
	template *template.Template
}

// NewPromptBuilder creates the composer with a parsed prompt template.
func NewPromptBuilder(name string, template *template.Template) *PromptBuilder {
	return &PromptBuilder{
		BaseCommand: *cor.NewBaseCommand(name),
		template:    template,
	}
}

// GenerateParams builds the substitution map for the prompt template. The
// candidate list is inlined as one "Title: ..., Year: ..., Overview: ...,
// Rating: ..." line per movie.
func (t *PromptBuilder) GenerateParams(context cor.Context, candidates []*model.CandidateMovie) map[string]interface{} {
	lines := make([]string, 0, len(candidates))
	for _, m := range candidates {
		lines = append(lines, fmt.Sprintf("Title: %s, Year: %s, Overview: %s, Rating: %v", m.Title, m.Year, m.Overview, m.Rating))
	}

	params := make(map[string]interface{})
	params["GENRE"], _ = context.Get(CtxGenre).(string)
	params["FILTER"], _ = context.Get(CtxFilter).(string)
	params["MOVIES"] = strings.Join(lines, "\n")
	return params
}

// Execute renders the template and stores the finished prompt as the
// chain's output.
func (t *PromptBuilder) Execute(context cor.Context) {
	candidates := context.Get(t.GetInputParam()).([]*model.CandidateMovie)

	var buffer bytes.Buffer
	err := t.template.Execute(&buffer, t.GenerateParams(context, candidates))
	if err != nil {
		t.GetErrorCounter().Add(context.GetContext(), 1)
		context.AddError(t.GetName(), fmt.Errorf("failed to execute prompt template: %w", err))
		return
	}

	t.GetSuccessCounter().Add(context.GetContext(), 1)
	context.Add(t.GetOutputParam(), buffer.String())
}
