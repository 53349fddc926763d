package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/strategy"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/validators"
)

func main() {
	defsPath := flag.String("definitions", "", "form definition YAML (builtin signup form if empty)")
	strategyName := flag.String("strategy", "realTimeOnly", "validation strategy")
	flag.Parse()

	strat, err := strategy.Parse(*strategyName)
	if err != nil {
		log.Fatalf("Invalid strategy: %v", err)
	}

	defs, err := loadDefinitions(*defsPath)
	if err != nil {
		log.Fatalf("Failed to load definitions: %v", err)
	}

	form, err := formstate.New(defs, formstate.WithStrategy(strat))
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}
	defer form.Close()

	for _, def := range defs {
		if err := promptField(form, def); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				fmt.Println("aborted")
				os.Exit(1)
			}
			log.Fatalf("Prompt failed: %v", err)
		}
	}

	outcome := form.ValidateForm(
		func() {
			fmt.Println("\nsubmission accepted:")
			for name, value := range form.Snapshot().Values() {
				fmt.Printf("  %s = %v\n", name, value)
			}
		},
		func(errs map[string]string) {
			fmt.Println("\nsubmission rejected:")
			for name, msg := range errs {
				fmt.Printf("  %s: %s\n", name, msg)
			}
		},
	)
	if !outcome.Proceed {
		os.Exit(1)
	}
}

func loadDefinitions(path string) ([]field.Definition, error) {
	if strings.TrimSpace(path) == "" {
		return builtinSignup(), nil
	}
	return formdef.LoadFS(os.DirFS("."), path)
}

func builtinSignup() []field.Definition {
	return []field.Definition{
		{
			Name:       "email",
			Type:       field.TypeString,
			Validators: []validation.Validator{validators.Required(), validators.Email()},
		},
		{
			Name:       "password",
			Type:       field.TypeString,
			Validators: []validation.Validator{validators.Required(), validators.MinLength(8)},
		},
		{
			Name:       "confirm",
			Type:       field.TypeString,
			Validators: []validation.Validator{validators.MatchesField("password")},
		},
		{
			Name:       "age",
			Type:       field.TypeInt,
			Validators: []validation.Validator{validators.Min(18)},
		},
	}
}

func promptField(form *formstate.Form, def field.Definition) error {
	switch def.Type {
	case field.TypeBool:
		var out bool
		prompt := &survey.Confirm{Message: def.Name + "?"}
		if err := survey.AskOne(prompt, &out); err != nil {
			return err
		}
		return applyAnswer(form, def.Name, out)
	case field.TypeInt:
		var raw string
		prompt := &survey.Input{Message: def.Name + ":"}
		err := survey.AskOne(prompt, &raw, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			if strings.TrimSpace(s) == "" {
				return nil
			}
			if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
				return fmt.Errorf("%q is not a whole number", s)
			}
			return nil
		}))
		if err != nil {
			return err
		}
		value := 0
		if s := strings.TrimSpace(raw); s != "" {
			value, _ = strconv.Atoi(s)
		}
		return applyAnswer(form, def.Name, value)
	default:
		var out string
		var prompt survey.Prompt
		if strings.Contains(def.Name, "password") || def.Name == "confirm" {
			prompt = &survey.Password{Message: def.Name + ":"}
		} else {
			prompt = &survey.Input{Message: def.Name + ":"}
		}
		if err := survey.AskOne(prompt, &out); err != nil {
			return err
		}
		return applyAnswer(form, def.Name, out)
	}
}

func applyAnswer(form *formstate.Form, name string, value any) error {
	if err := form.UpdateField(name, value); err != nil {
		return err
	}
	if msg, ok := form.Snapshot().Error(name); ok {
		fmt.Printf("  ! %s\n", msg)
	}
	return nil
}
