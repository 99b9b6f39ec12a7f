// Copyright 2025 Innovation Lab Inc. <dev+marketplace@innovationlab.ai>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// ServiceItem is one entry of the rendered page's services band.
type ServiceItem struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	LinkLabel   string `yaml:"link_label"`
}

// Content holds the editorial copy of the rendered catalog page.
type Content struct {
	Hero struct {
		Header    string `yaml:"header"`
		Paragraph string `yaml:"paragraph"`
		Button    string `yaml:"button"`
	} `yaml:"hero"`
	Services struct {
		Header string        `yaml:"header"`
		Items  []ServiceItem `yaml:"items"`
	} `yaml:"services"`
	Toolbar struct {
		Header    string `yaml:"header"`
		Paragraph string `yaml:"paragraph"`
	} `yaml:"toolbar"`
	GovernanceNote string `yaml:"governance_note"`
}

// DefaultContent returns the built-in page copy.
func DefaultContent() Content {
	content := Content{}
	content.Hero.Header = "How can AI transform global wealth?"
	content.Hero.Paragraph = "The world of AI is evolving rapidly. Discover how the Innovation Lab " +
		"leverages cutting-edge AI technologies to enhance your wealth management experience."
	content.Hero.Button = "Explore more"
	content.Services.Header = "The Innovation Lab"
	content.Services.Items = []ServiceItem{
		{
			Title: "Who we are",
			Description: "A dedicated team of technologists and financial experts driving " +
				"innovation in wealth management.",
			LinkLabel: "More about us",
		},
		{
			Title: "What the Lab does",
			Description: "We explore emerging technologies like AI, blockchain, and data " +
				"analytics to create next-gen financial solutions.",
			LinkLabel: "Our projects",
		},
		{
			Title: "How we work",
			Description: "Collaborating with startups, academia, and industry leaders to bring " +
				"cutting-edge solutions to our clients.",
			LinkLabel: "Partnerships",
		},
	}
	content.Toolbar.Header = "AI Application Marketplace"
	content.Toolbar.Paragraph = "Discover innovative AI applications tailored for wealth " +
		"management, asset management, and investment banking."
	content.GovernanceNote = "These applications provide insights and simulations and are " +
		"governed by our Responsible AI principles."
	return content
}

// LoadContentFile loads page copy from a YAML file over the built-in defaults.
func LoadContentFile(path string) (Content, error) {
	content := DefaultContent()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("unable to read the content file %q (%w)", path, err)
	}
	if err := yaml.Unmarshal(raw, &content); err != nil {
		return Content{}, fmt.Errorf("unable to parse the content file %q (%w)", path, err)
	}
	return content, nil
}
