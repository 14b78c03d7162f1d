/*
Copyright © 2025 insureval authors
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"insureval/src/core/chat"
	"insureval/src/core/evaluation"
	"insureval/src/ollama"
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Run an offline evaluation of the chatbot over the dataset",
	Long: `The evaluate command asks the chatbot every question in the
evaluation dataset, scores each answer against its ground truth with
the LLM judge, and writes the results to a JSON file.`,
	RunE: RunEvaluation,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	settingDefaultConfig()

	evaluateCmd.Flags().IntP("sample", "s", 0, "Number of questions to evaluate (0 = all)")
	evaluateCmd.Flags().StringP("output", "o", "", "Output JSON file path (default evaluation_results_<timestamp>.json)")
}

type questionResult struct {
	Question    string                `json:"question"`
	GroundTruth string                `json:"ground_truth"`
	Answer      string                `json:"answer"`
	Judge       evaluation.JudgeScore `json:"judge"`
	Error       string                `json:"error,omitempty"`
}

type evaluationRun struct {
	Timestamp      time.Time        `json:"timestamp"`
	Model          string           `json:"model"`
	TotalQuestions int              `json:"total_questions"`
	Succeeded      int              `json:"succeeded"`
	AverageOverall float64          `json:"average_overall"`
	Results        []questionResult `json:"results"`
}

func RunEvaluation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sampleSize, _ := cmd.Flags().GetInt("sample")
	outputPath, _ := cmd.Flags().GetString("output")

	dataset, err := loadDataset()
	if err != nil {
		return fmt.Errorf("failed to load evaluation dataset: %w", err)
	}

	questions := dataset.Questions()
	if sampleSize > 0 && sampleSize < len(questions) {
		questions = questions[:sampleSize]
	}

	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: 120 * time.Second,
	})
	provider := ollama.NewProvider(oc, viper.GetString("ollama.model"))
	judge := evaluation.NewJudgeScorer(provider)

	run := evaluationRun{
		Timestamp:      time.Now().UTC(),
		Model:          provider.Model(),
		TotalQuestions: len(questions),
	}

	bar := progressbar.Default(int64(len(questions)), "evaluating")
	var overallSum float64

	for _, q := range questions {
		result := questionResult{
			Question:    q.Question,
			GroundTruth: q.GroundTruth,
		}

		answer, err := provider.Chat(ctx, []evaluation.Message{
			{Role: "system", Content: chat.SystemPrompt},
			{Role: "user", Content: q.Question},
		})
		if err != nil {
			result.Error = err.Error()
			run.Results = append(run.Results, result)
			bar.Add(1)
			continue
		}

		result.Answer = answer
		result.Judge = judge.Score(ctx, q.Question, answer, q.GroundTruth)
		run.Results = append(run.Results, result)

		run.Succeeded++
		overallSum += result.Judge.Overall
		bar.Add(1)
	}

	if run.Succeeded > 0 {
		run.AverageOverall = overallSum / float64(run.Succeeded)
	}

	if outputPath == "" {
		outputPath = fmt.Sprintf("evaluation_results_%s.json", run.Timestamp.Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}

	fmt.Printf("Evaluation Results:\n")
	fmt.Printf("Total questions: %d\n", run.TotalQuestions)
	fmt.Printf("Succeeded: %d\n", run.Succeeded)
	fmt.Printf("Average overall score: %.2f/5\n", run.AverageOverall)
	fmt.Printf("Results saved to %s\n", outputPath)

	return nil
}
