package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/zetabot-lab/backend/internal/repository"
)

func newTestTransactionRepo() repository.TransactionRepository {
	idNode, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}

	return repository.NewTransactionRepository(idNode)
}
