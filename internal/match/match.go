// Package match compares the skills found in a candidate's text against the
// skills found in a job description.
package match

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/skill-finder/internal/extraction"
	"github.com/jonathan/skill-finder/internal/types"
)

// Compare extracts skills from both texts concurrently and reports overlap.
// The score is the fraction of job-description skills the candidate covers;
// a job description with no detectable skills scores zero.
func Compare(ctx context.Context, dispatcher *extraction.Dispatcher, candidateText, jobText string, useRemote bool) (*types.MatchReport, error) {
	var candidate, job extraction.Result

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		candidate = dispatcher.Extract(gctx, candidateText, useRemote, nil)
		return gctx.Err()
	})
	g.Go(func() error {
		job = dispatcher.Extract(gctx, jobText, useRemote, nil)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	candidateSet := nameSet(candidate.Mentions)
	jobSet := nameSet(job.Mentions)

	matched := []string{}
	missing := []string{}
	extra := []string{}
	for name := range jobSet {
		if candidateSet[name] {
			matched = append(matched, name)
		} else {
			missing = append(missing, name)
		}
	}
	for name := range candidateSet {
		if !jobSet[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)
	sort.Strings(extra)

	score := 0.0
	if len(jobSet) > 0 {
		score = float64(len(matched)) / float64(len(jobSet))
	}

	return &types.MatchReport{
		MatchScore:      score,
		CandidateSkills: candidate.Mentions,
		JobSkills:       job.Mentions,
		MatchedSkills:   matched,
		MissingSkills:   missing,
		ExtraSkills:     extra,
	}, nil
}

// nameSet lowercases canonical names so matching is insensitive to casing
// differences between the two extraction passes.
func nameSet(mentions []types.SkillMention) map[string]bool {
	set := make(map[string]bool, len(mentions))
	for _, m := range mentions {
		set[strings.ToLower(m.Name)] = true
	}
	return set
}
