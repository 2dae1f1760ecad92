package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/app"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/domain"
)

var generateReq domain.GenerationRequest

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run one generation stage and print the normalized result as JSON.",
	Long: `Runs one stage against the configured provider without charging credits or
touching staging. Flags fill the request; --request reads a full JSON request
from a file ("-" for stdin) and flags are ignored.`,
	Example: `  curriculum generate --stage subjects --region Ontario
  curriculum generate --stage lessons-by-strand --subject Science --grade 5 --strand 5-PS1 --count 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req := generateReq
		if path, _ := cmd.Flags().GetString("request"); path != "" {
			r, err := readRequest(path)
			if err != nil {
				return err
			}
			req = r
		}

		log, err := app.NewLogger()
		if err != nil {
			return err
		}
		defer log.Sync()
		cfg, err := app.LoadConfig(log)
		if err != nil {
			return err
		}
		gen, err := app.WireProvider(cmd.Context(), cfg.Provider, log)
		if err != nil {
			return err
		}
		// RunSingle never charges, so no ledger is needed
		orch := batch.NewOrchestrator(gen, nil, cfg.Batch.Policy(), log)

		stage, err := domain.ParseStage(string(req.Stage))
		if err != nil {
			return err
		}
		req.Stage = stage
		res, err := orch.RunSingle(cmd.Context(), req)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func readRequest(path string) (domain.GenerationRequest, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.GenerationRequest{}, err
		}
		defer f.Close()
		r = f
	}
	var req domain.GenerationRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return domain.GenerationRequest{}, fmt.Errorf("decode request: %w", err)
	}
	return req, nil
}

func init() {
	f := generateCmd.Flags()
	f.StringVar((*string)(&generateReq.Stage), "stage", "", "stage to run (subjects, frameworks, grades, section-standards, strand-discovery, lessons-by-strand, lessons-by-substandards)")
	f.StringVar(&generateReq.Region, "region", "", "region or country")
	f.StringVar(&generateReq.Subject, "subject", "", "subject name")
	f.StringVar(&generateReq.Framework, "framework", "", "curriculum framework")
	f.StringVar(&generateReq.Grade, "grade", "", "grade or grade band")
	f.StringVar(&generateReq.SectionName, "section", "", "standard section name")
	f.StringVar(&generateReq.SectionCode, "section-code", "", "standard section code")
	f.StringVar(&generateReq.StrandCode, "strand", "", "strand code for lessons-by-strand")
	f.StringVar(&generateReq.StrandName, "strand-name", "", "strand name for lessons-by-strand")
	f.IntVar(&generateReq.TargetLessonCount, "count", 0, "lessons to write for lessons-by-strand")
	f.IntVar(&generateReq.TotalLessonCount, "total", 0, "total lessons to plan for strand-discovery")
	f.IntVar(&generateReq.MaxItems, "max-items", 0, "cap on returned items")
	f.String("request", "", "read the full JSON request from this file (- for stdin)")
	rootCmd.AddCommand(generateCmd)
}
