package services

import (
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/logger"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/models"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/repositories"
	"github.com/FSDTeam-SAA/thekingBackend-sub000/internal/telemetry"
)

// DedupService merges duplicate one-to-one conversations created by racing
// requests. For each participant pair holding more than one record the
// earliest-created conversation is canonical; every other record has its
// messages re-pointed at the canonical one and is then removed. The run is
// idempotent and merge-only: it never invents data, so racing creations
// during a run simply wait for the next one.
type DedupService struct {
	chatRepo *repositories.ChatRepository
}

func NewDedupService(chatRepo *repositories.ChatRepository) *DedupService {
	return &DedupService{
		chatRepo: chatRepo,
	}
}

// Run merges every duplicate group once. A failing group is logged and
// skipped; the remaining groups still get processed.
func (ds *DedupService) Run() (*models.MergeSummary, error) {
	groups, err := ds.chatRepo.FindDuplicatePairGroups()
	if err != nil {
		return nil, err
	}

	summary := &models.MergeSummary{}
	for _, group := range groups {
		canonical := group[0]
		merged := true
		for _, duplicate := range group[1:] {
			moved, err := ds.chatRepo.MergeConversationInto(canonical.ID, duplicate.ID)
			if err != nil {
				logger.Error("conversation merge failed",
					"canonicalId", canonical.ID, "duplicateId", duplicate.ID, "error", err)
				merged = false
				break
			}
			summary.ConversationsRemoved++
			summary.MessagesMoved += moved
			telemetry.ConversationsMerged.Inc()
		}
		if !merged {
			summary.GroupsFailed++
			continue
		}

		if err := ds.chatRepo.RefreshLastMessage(canonical.ID); err != nil {
			logger.Warn("failed to refresh merged conversation pointer",
				"conversationId", canonical.ID, "error", err)
		}
		summary.GroupsMerged++
	}

	if len(groups) > 0 {
		logger.Info("conversation deduplication finished",
			"groups", len(groups),
			"merged", summary.GroupsMerged,
			"removed", summary.ConversationsRemoved,
			"messagesMoved", summary.MessagesMoved,
			"failed", summary.GroupsFailed)
	}
	return summary, nil
}
