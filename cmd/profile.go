package cmd

import (
	"fmt"
	"log"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/okynos/localchat/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage service profiles",
	Long:  `Manage profiles for different completion endpoints, models and generation parameters.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for name, profile := range cfg.Profiles {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			fmt.Printf("    Model: %s\n", profile.Model)
			if profile.BaseURL != "" {
				fmt.Printf("    Base URL: %s\n", profile.BaseURL)
			}
			if profile.DaemonURL != "" {
				fmt.Printf("    Daemon URL: %s\n", profile.DaemonURL)
			}
			hasKey := "No"
			if profile.APIKey != "" {
				hasKey = "Yes"
			}
			fmt.Printf("    API Key: %s\n", hasKey)
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName := args[0]
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		fmt.Printf("Profile: %s\n", profileName)
		fmt.Printf("Model: %s\n", profile.Model)
		fmt.Printf("Base URL: %s\n", profile.BaseURL)
		fmt.Printf("Daemon URL: %s\n", profile.DaemonURL)
		fmt.Printf("Temperature: %g\n", profile.Temperature)
		fmt.Printf("Max Tokens: %d\n", profile.MaxTokens)
		fmt.Printf("Top P: %g\n", profile.TopP)
		fmt.Printf("Frequency Penalty: %g\n", profile.FrequencyPenalty)
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden for security)"
		}
		fmt.Printf("API Key: %s\n", hasKey)
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label: "Profile name",
			}
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.DefaultProfile())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := resolveProfileName(cfg, args, "Select profile to edit")
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		current, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		profile, err := promptProfile(current)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		profileName, err := resolveProfileName(cfg, args, "Select profile to delete")
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}
		if profileName == cfg.ActiveProfile {
			log.Fatalf("Cannot delete the active profile; switch first with 'localchat use'")
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Aborted")
			return
		}

		delete(cfg.Profiles, profileName)
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted\n", profileName)
	},
}

// promptProfile walks through all profile fields, offering the current values
// as defaults.
func promptProfile(current config.Profile) (config.Profile, error) {
	profile := current

	apiKeyPrompt := promptui.Prompt{
		Label: "API Key (optional for local endpoints)",
		Mask:  '*',
	}
	apiKey, err := apiKeyPrompt.Run()
	if err != nil {
		return profile, err
	}
	if apiKey != "" {
		profile.APIKey = apiKey
	}

	modelPrompt := promptui.Prompt{
		Label:   "Model",
		Default: current.Model,
	}
	if profile.Model, err = modelPrompt.Run(); err != nil {
		return profile, err
	}

	baseURLPrompt := promptui.Prompt{
		Label:   "Completion Base URL",
		Default: current.BaseURL,
	}
	if profile.BaseURL, err = baseURLPrompt.Run(); err != nil {
		return profile, err
	}

	daemonURLPrompt := promptui.Prompt{
		Label:   "Service Daemon URL",
		Default: current.DaemonURL,
	}
	if profile.DaemonURL, err = daemonURLPrompt.Run(); err != nil {
		return profile, err
	}

	if profile.Temperature, err = promptFloat("Temperature", current.Temperature); err != nil {
		return profile, err
	}
	if profile.MaxTokens, err = promptInt("Max Tokens", current.MaxTokens); err != nil {
		return profile, err
	}
	if profile.TopP, err = promptFloat("Top P", current.TopP); err != nil {
		return profile, err
	}
	if profile.FrequencyPenalty, err = promptFloat("Frequency Penalty", current.FrequencyPenalty); err != nil {
		return profile, err
	}

	return profile, nil
}

func promptFloat(label string, def float32) (float32, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.FormatFloat(float64(def), 'g', -1, 32),
		Validate: func(input string) error {
			_, err := strconv.ParseFloat(input, 32)
			return err
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	parsed, err := strconv.ParseFloat(value, 32)
	if err != nil {
		return 0, err
	}
	return float32(parsed), nil
}

func promptInt(label string, def int) (int, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(input string) error {
			_, err := strconv.Atoi(input)
			return err
		},
	}
	value, err := prompt.Run()
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// resolveProfileName takes the name from args or asks with a select prompt.
func resolveProfileName(cfg *config.Config, args []string, label string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	return name, err
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	rootCmd.AddCommand(profileCmd)
}
