package evaluation

const SimilaritySystemPrompt = `You are a STRICT insurance question matching expert. Your task is to be very conservative when matching questions.

CRITICAL RULES:
- Only match questions that ask about the EXACT SAME insurance concept
- Different insurance types/topics are NOT similar (e.g., auto vs life insurance)
- Related but different concepts are NOT similar (e.g., filing claims vs buying insurance)
- Be extremely conservative with confidence scores
- When in doubt, DON'T match (confidence < 0.95)

Examples of what should NOT match:
- "What does liability cover?" vs "What is comprehensive coverage?" (different coverage types)
- "How to file a claim?" vs "What are business hours?" (completely different topics)
- "Auto insurance rates" vs "Life insurance benefits" (different insurance categories)

Only give high confidence (>=0.95) if you're absolutely certain it's the same concept with different wording.`

const similarityPromptTmpl = `
You are an insurance question matching expert. Your job is to be VERY STRICT about matching questions.

USER QUESTION: "{{.UserQuestion}}"

EVALUATION QUESTIONS:
{{.EvalQuestions}}

TASK: Find if ANY EVALUATION QUESTION asks about the EXACT SAME insurance concept as the USER QUESTION.

STRICT MATCHING RULES:
SIMILAR (high confidence): Questions about the exact same insurance concept with different wording
   - "What does liability insurance cover?" vs "What protection does liability provide?"
   - "How do I file a claim?" vs "What's the process for making a claim?"

NOT SIMILAR (low confidence): Different insurance topics, even if related
   - Liability insurance vs Comprehensive coverage (different types)
   - Auto insurance vs Life insurance (different categories)
   - Filing claims vs Buying insurance (different processes)
   - Insurance coverage vs Customer service hours (different topics)

IMPORTANT:
- Only output ONE result, not a list.
- Do NOT output multiple MATCH lines.
- The EVALUATION QUESTION must be copied EXACTLY from the numbered list above, or "No match".
- Do NOT use the USER QUESTION as the EVALUATION QUESTION.
- If the USER QUESTION is nonsense or not insurance-related (e.g., "Hello"), output MATCH: 0, MATCHED EVALUATION QUESTION: No match, CONFIDENCE: 0.0, REASON: Not an insurance question.

BE EXTREMELY CONSERVATIVE: Only give confidence >= {{.Threshold}} if the questions ask about the EXACT SAME concept.

RESPOND IN EXACTLY THIS FORMAT WITH ONE RESULT:

USER QUESTION: [exact text from user question]
MATCH: [question number 1-{{.QuestionCount}}, or 0 if no match]
MATCHED EVALUATION QUESTION: [exact text from evaluation list, or "No match"]
CONFIDENCE: [0.00-1.00, be very conservative]
REASON: [explain why they match or don't match the same concept]

CRITICAL: If you're not 100% sure it's the same concept, use confidence < {{.Threshold}}

EXAMPLES:
USER QUESTION: "Hello"
MATCH: 0
MATCHED EVALUATION QUESTION: No match
CONFIDENCE: 0.0
REASON: Not an insurance question.

USER QUESTION: "What am I covered for with liability insurance?"
MATCH: 1
MATCHED EVALUATION QUESTION: What does liability insurance cover?
CONFIDENCE: 1.0
REASON: Exact same insurance concept.

Your response:
`

const JudgeSystemPrompt = `You are an impartial insurance domain expert grading a chatbot answer against a curated reference answer. You grade strictly but fairly, and you always follow the requested output format exactly.`

const judgePromptTmpl = `
Grade the CANDIDATE ANSWER to the QUESTION against the REFERENCE ANSWER.

QUESTION:
{{.Question}}

CANDIDATE ANSWER:
{{.Candidate}}

REFERENCE ANSWER:
{{.Reference}}

Rate the candidate on each criterion with an integer from 1 (very poor) to 5 (excellent):
- Accuracy: factual agreement with the reference answer
- Completeness: coverage of the key points in the reference answer
- Clarity: how clear and well organized the candidate answer is
- Relevance: how directly the candidate answers the question asked
- Helpfulness: practical usefulness to an insurance customer

RESPOND IN EXACTLY THIS FORMAT:

Accuracy: [1-5]/5
Completeness: [1-5]/5
Clarity: [1-5]/5
Relevance: [1-5]/5
Helpfulness: [1-5]/5
Overall: [1-5]/5
Feedback: [one or two sentences on the main strengths and weaknesses]
`
