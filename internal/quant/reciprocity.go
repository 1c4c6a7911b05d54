package quant

// reciprocityIndex measures structural balance between exactly two
// participants: who sends, who initiates, who answers faster, who reacts.
// Any other participant count yields the neutral index with every
// sub-score at 50.
func reciprocityIndex(a *accumulator) ReciprocityIndex {
	if len(a.order) != 2 {
		return ReciprocityIndex{
			MessageBalance:    50,
			InitiationBalance: 50,
			ResponseSymmetry:  50,
			ReactionBalance:   50,
			Overall:           50,
		}
	}
	pa := a.accs[a.order[0]]
	pb := a.accs[a.order[1]]

	idx := ReciprocityIndex{
		MessageBalance:    balanceScore(float64(pa.messages), float64(pb.messages)),
		InitiationBalance: balanceScore(float64(pa.initiations), float64(pb.initiations)),
		ResponseSymmetry:  symmetryScore(medianMs(pa.responseSamples), medianMs(pb.responseSamples)),
		ReactionBalance:   balanceScore(float64(pa.reactionsGiven), float64(pb.reactionsGiven)),
	}
	idx.Overall = (idx.MessageBalance + idx.InitiationBalance + idx.ResponseSymmetry + idx.ReactionBalance) / 4
	return idx
}
