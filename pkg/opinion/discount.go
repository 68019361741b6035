package opinion

// Discount scales an opinion by the belief mass of a trust opinion about its
// source. Belief and disbelief are attenuated by trust.Belief and the
// removed mass becomes uncertainty: an untrusted source's claims degrade to
// ignorance, never to disbelief.
//
// Full trust (1,0,0,a) is the identity. Zero trust (0,1,0,a) and vacuous
// trust (0,0,1,a) both collapse the result to the fully vacuous opinion.
// The base rate of the discounted opinion — not of the trust opinion — is
// preserved, since the prior on the proposition is unaffected by how much
// we trust its reporter.
func Discount(trust, op Opinion) (Opinion, error) {
	if err := trust.Validate(); err != nil {
		return Opinion{}, err
	}
	if err := op.Validate(); err != nil {
		return Opinion{}, err
	}

	belief := trust.Belief * op.Belief
	disbelief := trust.Belief * op.Disbelief
	uncertainty := 1 - trust.Belief*(op.Belief+op.Disbelief)

	return normalized(belief, disbelief, uncertainty, op.BaseRate)
}
