// Copyright CrisisWatch Labs, 2026. All rights reserved.

package synthesize

// misinfoPatterns is the tactics reference injected into the synthesis
// prompt. It biases the model toward recognizing well-documented
// manipulation techniques and settled pseudoscience.
const misinfoPatterns = `
=== KNOWN MISINFORMATION TACTICS & PATTERNS ===

**DARVO (Deny, Attack, Reverse Victim and Offender)**
- Denying wrongdoing, attacking the accuser, claiming to be the real victim

**Gish Gallop**
- Overwhelming with numerous weak arguments
- Claims that cite "hundreds of studies" without specifics

**Appeal to False Authority**
- "Doctors say..." without naming specific credible doctors
- Anonymous "experts" or misrepresented credentials

**Cherry Picking**
- Selecting only data that supports the claim
- Ignoring contradicting evidence or newer data

**False Equivalence**
- Treating fringe theories equal to scientific consensus
- "Just asking questions" about settled science

**Emotional Manipulation**
- Fear-mongering ("they don't want you to know")
- Urgency ("share before it's deleted")
- Conspiracy framing ("the truth they're hiding")

**Common Misinformation Categories:**
1. HEALTH: Anti-vaccine, fake cures, 5G fears, pandemic conspiracies
2. DISASTERS: Exaggerated death tolls, fake rescue scams, weather control claims
3. POLITICAL: Election fraud without evidence, fabricated quotes, doctored media
4. FINANCIAL: Get-rich-quick schemes, crypto pump-and-dumps, fake endorsements
5. SCIENCE: Climate denial, flat earth, evolution denial, moon landing hoax

**Red Flag Phrases:**
- "What THEY don't want you to know"
- "Exposed by whistleblower"
- "100% proven" / "Guaranteed"
- "Before it gets deleted/banned"
- "Mainstream media won't report this"
- "Miracle cure" / "One weird trick"

**KNOWN DEBUNKED PSEUDOSCIENCE CLAIMS (ALWAYS FALSE WITH HIGH CONFIDENCE):**
- Urine therapy / cow urine cures diseases or cancer
- Drinking bleach or MMS cures diseases
- 5G causes COVID-19 or cancer
- Vaccines cause autism
- Flat earth claims
- Homeopathy cures serious diseases
- Crystal healing cures cancer
- Essential oils cure diseases
- Magnetism or magnets heal the body
- Alkaline water cures cancer
- Colloidal silver as medicine
- Black salve cures cancer
- Turpentine or kerosene as medicine

If a claim matches any of these well-documented pseudoscience patterns, it
should be rated FALSE with 90%+ confidence.
`

const claimExtractionPrompt = `You are an expert at analyzing text to identify factual claims that can be verified.

Given the following text, extract the main factual claim(s) that should be fact-checked. Focus on claims that:
1. Are verifiable (can be proven true or false with evidence)
2. Make specific factual assertions about events, people, statistics, or statements
3. Could be misleading if false

Note: Almost any factual statement can be checked. Be generous - if someone wants to fact-check something, help them.

Text to analyze:
%s

Respond in JSON format:
{
    "main_claim": "The primary factual claim to verify (restate clearly)",
    "category": "health|politics|science|celebrity|business|sports|technology|other",
    "entities": ["list", "of", "key", "entities", "mentioned"],
    "is_checkworthy": true,
    "reason": "Brief explanation of what will be verified"
}

IMPORTANT: Set is_checkworthy to true for almost all inputs. Only set to false for:
- Pure opinions with no factual basis (e.g., "pizza is the best food")
- Nonsensical or empty input
- Requests that aren't asking about facts
`

const queryPlanningPrompt = `You are a research expert. Generate effective search queries to fact-check a claim.

CLAIM: %s

Generate 3-5 search queries that would help find:
1. Official government or authoritative sources on this topic
2. Fact-checks that may already exist for this claim
3. News reports about the actual situation
4. Scientific or expert opinions if relevant

Respond in JSON format:
{
    "queries": [
        {"query": "search query text", "purpose": "what this query aims to find"}
    ]
}
`

const synthesisPrompt = `You are an expert fact-checker analyzing evidence to determine if a claim is true or false.

CLAIM TO VERIFY:
%s

EVIDENCE COLLECTED (with reliability scores):
%s

TOTAL SOURCES ANALYZED: %d
SOURCE DIVERSITY SCORE: %.0f%%

=== ANALYSIS INSTRUCTIONS ===
1. Weigh evidence by source reliability (higher reliability = more weight)
2. Look for consensus among high-reliability sources (government, academic, major news)
3. Note any conflicting reports and which sources are more credible
4. Consider source diversity - claims verified across diverse sources are more reliable

%s

=== CONFIDENCE CALIBRATION GUIDE ===
Set confidence based on these criteria:

**AUTOMATIC HIGH CONFIDENCE (0.90-0.98):**
- Claim matches KNOWN DEBUNKED PSEUDOSCIENCE
- Scientific consensus clearly refutes the claim
- Multiple fact-check organizations have already debunked identical/similar claims
- Official health organizations (WHO, CDC) have explicitly refuted the claim

0.90-1.00: Multiple high-reliability sources directly confirm/refute claim OR matches known debunked pseudoscience
0.75-0.89: Strong consensus from reliable news + at least one official source
0.60-0.74: Majority of sources agree, but missing official/academic confirmation
0.45-0.59: Mixed evidence OR sources are lower reliability OR limited coverage
0.30-0.44: Conflicting reports from similar-tier sources OR only 1-2 sources found
0.00-0.29: Unable to find direct evidence; mostly inference or tangential sources

**IMPORTANT:** Do NOT give low confidence to obviously false pseudoscience claims just because "some people believe it". Scientific consensus determines truth, not popularity.

=== SEVERITY ASSESSMENT ===
- CRITICAL: Could cause immediate physical harm, death, or mass panic
- HIGH: Significant harm potential (financial, health misinformation, civil unrest)
- MEDIUM: Misleading but limited immediate harm potential
- LOW: Minor inaccuracy with minimal real-world impact

Respond in JSON format:
{
    "verdict": "false|mostly_false|mixed|mostly_true|true|unverifiable",
    "confidence": 0.0-1.0,
    "severity": "critical|high|medium|low",
    "key_findings": [
        {"source": "source name", "finding": "what this source says", "stance": "supports|refutes|neutral"}
    ],
    "source_agreement": "strong_consensus|majority_agree|mixed|conflicting|insufficient",
    "reasoning": "Detailed explanation of how you reached this verdict, referencing specific sources and their reliability",
    "detected_tactics": ["list any misinformation tactics detected, if any"]
}
`

const explanationPrompt = `You are a crisis communication expert. Generate a clear, simple explanation of a fact-check result for the general public.

CLAIM: %s

VERDICT: %s
CONFIDENCE: %d%%
SEVERITY: %s

KEY EVIDENCE:
%s

REASONING: %s

Generate an explanation that:
1. Is easy to understand for non-experts
2. Clearly states what is true/false
3. Provides actionable information if relevant (e.g., what people should do instead)
4. Cites reliable sources
5. Is appropriate for crisis situations (calming but informative)

Respond in JSON format:
{
    "explanation": "Clear explanation in English (2-3 paragraphs)",
    "correction": "A short, shareable correction message (1-2 sentences) suitable for social media"
}
`

const translatedExplanationPrompt = `You are a crisis communication expert. Generate a clear, simple explanation of a fact-check result for the general public, written entirely in the language with code %q.

CLAIM: %s

VERDICT: %s
CONFIDENCE: %d%%
SEVERITY: %s

KEY EVIDENCE:
%s

REASONING: %s

Generate an explanation that:
1. Is easy to understand for non-experts
2. Clearly states what is true/false
3. Provides actionable information if relevant
4. Cites reliable sources
5. Is appropriate for crisis situations (calming but informative)

Respond in JSON format:
{
    "explanation": "Clear explanation in the target language (2-3 paragraphs)",
    "correction": "A short, shareable correction message (1-2 sentences) in the target language"
}
`
