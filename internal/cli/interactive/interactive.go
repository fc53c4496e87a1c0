// Package interactive holds the survey prompts used by the CLI.
package interactive

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/kutbudev/taskboard/internal/api"
	"github.com/kutbudev/taskboard/internal/db"
	"github.com/kutbudev/taskboard/internal/models"
	"github.com/kutbudev/taskboard/pkg/validate"
)

// CreateTaskInteractive walks the user through creating a task.
func CreateTaskInteractive() (api.TaskPayload, error) {
	var payload api.TaskPayload

	questions := []*survey.Question{
		{
			Name:     "title",
			Prompt:   &survey.Input{Message: "Task title:"},
			Validate: survey.Required,
		},
		{
			Name:   "description",
			Prompt: &survey.Multiline{Message: "Description (optional):"},
		},
		{
			Name: "priority",
			Prompt: &survey.Select{
				Message: "Priority:",
				Options: []string{models.PriorityLow, models.PriorityMedium, models.PriorityHigh},
				Default: models.PriorityMedium,
			},
		},
		{
			Name:   "dueDate",
			Prompt: &survey.Input{Message: "Due date (YYYY-MM-DD, optional):"},
			Validate: func(ans interface{}) error {
				s, _ := ans.(string)
				if s != "" && !validate.IsDate(s) {
					return fmt.Errorf("use YYYY-MM-DD")
				}
				return nil
			},
		},
	}

	answers := struct {
		Title       string
		Description string
		Priority    string
		DueDate     string
	}{}

	if err := survey.Ask(questions, &answers); err != nil {
		return payload, err
	}

	payload.Title = answers.Title
	payload.Description = answers.Description
	payload.Priority = answers.Priority
	payload.DueDate = answers.DueDate

	for {
		var subtask string
		prompt := &survey.Input{Message: "Add subtask (empty to finish):"}
		if err := survey.AskOne(prompt, &subtask); err != nil {
			return payload, err
		}
		if subtask == "" {
			break
		}
		payload.Subtasks = append(payload.Subtasks, db.SubtaskInput{Title: subtask})
	}

	return payload, nil
}
